package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// datesCmd is the home view.
type datesCmd struct{}

func (*datesCmd) Name() string     { return "dates" }
func (*datesCmd) Synopsis() string { return "list the dates market summaries are available for" }
func (*datesCmd) Usage() string {
	return `fv dates

  Lists the dates with computed account summaries, most recent first.
  Use 'fv summary -d <date>' to display one of them.
`
}

func (*datesCmd) SetFlags(f *flag.FlagSet) {}

func (*datesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	dates, err := a.Client.LatestDates(ctx)
	if err != nil {
		return a.failf(ctx, "Failed to fetch dates: %v", err)
	}
	return a.show(ctx, renderer.DatesMarkdown(dates))
}

// requestCmd asks the backend to compute the summaries of a date.
type requestCmd struct {
	date string
}

func (*requestCmd) Name() string     { return "request" }
func (*requestCmd) Synopsis() string { return "request market data for today or a given date" }
func (*requestCmd) Usage() string {
	return `fv request [-d <date>]

  Asks the backend to compute account summaries, for today by default.
`
}

func (c *requestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date to request market data for. Defaults to today.")
}

func (c *requestCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	on, err := date.ParseOptional(c.date)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := a.Client.RequestSummaries(ctx, on); err != nil {
		if on.IsZero() {
			return a.failf(ctx, "Failed to request today's data: %v", err)
		}
		return a.failf(ctx, "Failed to request market data: %v", err)
	}
	if on.IsZero() {
		fmt.Fprintln(a.Stdout, "Today's market data requested!")
	} else {
		fmt.Fprintf(a.Stdout, "Market data requested for %s!\n", on)
	}
	return subcommands.ExitSuccess
}

// deleteCmd deletes the summaries of a date.
type deleteCmd struct {
	yes bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete the market summaries of a date" }
func (*deleteCmd) Usage() string {
	return `fv delete [-y] <date>

  Deletes the account summaries computed on a date, after confirmation.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if f.NArg() != 1 {
		fmt.Fprintln(a.Stderr, "Error: exactly one date is required.")
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(f.Arg(0))
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	if !c.yes && !a.confirm(fmt.Sprintf("Are you sure you want to delete the summary for %s?", on)) {
		fmt.Fprintln(a.Stdout, "Cancelled.")
		return subcommands.ExitSuccess
	}

	res, err := a.Client.DeleteSummaries(ctx, on)
	if err != nil {
		return a.failf(ctx, "Failed to delete summary: %v", err)
	}
	fmt.Fprintf(a.Stdout, "Deleted %d summaries for %s\n", res.Deleted, res.Date)
	return subcommands.ExitSuccess
}

// latest returns the most recent date summaries are available for.
func (a *App) latest(ctx context.Context) (date.Date, error) {
	dates, err := a.Client.LatestDates(ctx)
	if err != nil {
		return date.Date{}, fmt.Errorf("cannot fetch available dates: %w", err)
	}
	if len(dates) == 0 {
		return date.Date{}, fmt.Errorf("no market data available yet, see 'fv request'")
	}
	last := dates[0]
	for _, d := range dates[1:] {
		if d.After(last) {
			last = d
		}
	}
	return last, nil
}

// dateOrLatest parses value, or returns the latest available date when value is empty.
func (a *App) dateOrLatest(ctx context.Context, value string) (date.Date, error) {
	if value == "" {
		return a.latest(ctx)
	}
	return date.Parse(value)
}
