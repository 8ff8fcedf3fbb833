package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type pricesCmd struct {
	date string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "display the prices of a date" }
func (*pricesCmd) Usage() string {
	return `fv prices [-d <date>]

  Displays the price of every symbol on a date.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the prices. Defaults to the latest available date.")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	on, err := a.dateOrLatest(ctx, c.date)
	if err != nil {
		return a.failf(ctx, "Failed to fetch available dates: %v", err)
	}
	prices, err := a.Client.Prices(ctx, on)
	if err != nil {
		return a.failf(ctx, "Failed to fetch prices for %s: %v", on, err)
	}
	return a.show(ctx, renderer.PricesMarkdown(on, prices, a.currency()))
}

type setPriceCmd struct {
	symbol string
	date   string
	value  string
}

func (*setPriceCmd) Name() string     { return "set-price" }
func (*setPriceCmd) Synopsis() string { return "set the price of a symbol on a date" }
func (*setPriceCmd) Usage() string {
	return `fv set-price -s <symbol> -v <value> [-d <date>]

  Creates or replaces the price of a symbol.
`
}

func (c *setPriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the price")
	f.StringVar(&c.value, "v", "", "Price value")
}

func (c *setPriceCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if c.symbol == "" {
		fmt.Fprintln(a.Stderr, "Error: -s is required.")
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	value, err := decimal.NewFromString(c.value)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error parsing value %q: %v\n", c.value, err)
		return subcommands.ExitUsageError
	}

	if err := a.Client.UpsertPrice(ctx, folio.PriceUpdate{Symbol: c.symbol, Date: on, Value: value}); err != nil {
		return a.failf(ctx, "Failed to set the price of %s: %v", c.symbol, err)
	}
	fmt.Fprintf(a.Stdout, "Price of %s on %s set to %s.\n", c.symbol, on, renderer.M(value, a.currency()))
	return subcommands.ExitSuccess
}
