package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts" }
func (*accountsCmd) Usage() string {
	return `fv accounts

  Lists the account names, and the dates their content is available for.
  Use 'fv account <name>' to display one of them.
`
}

func (*accountsCmd) SetFlags(f *flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	var (
		names []string
		dates []date.Date
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dates, err = a.Client.LatestDates(gctx)
		return err
	})
	g.Go(func() (err error) {
		names, err = a.Client.AccountNames(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return a.failf(ctx, "Failed to load accounts: %v", err)
	}
	return a.show(ctx, renderer.AccountsMarkdown(names, dates))
}

type accountCmd struct {
	date string
}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "display the content of an account" }
func (*accountCmd) Usage() string {
	return `fv account [-d <date>] <name>

  Displays the cash, market value and holdings of an account, on a date or
  the latest known content.
`
}

func (c *accountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the account content. Defaults to the latest content.")
}

func (c *accountCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if f.NArg() != 1 {
		fmt.Fprintln(a.Stderr, "Error: exactly one account name is required.")
		return subcommands.ExitUsageError
	}
	on, err := date.ParseOptional(c.date)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	account, err := a.Client.Account(ctx, f.Arg(0), on)
	if folio.IsNotFound(err) {
		return a.failf(ctx, "Account %q not found.", f.Arg(0))
	}
	if err != nil {
		return a.failf(ctx, "Failed to fetch account details: %v", err)
	}
	return a.show(ctx, renderer.AccountMarkdown(account, on, a.currency()))
}
