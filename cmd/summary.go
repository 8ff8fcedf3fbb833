package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the market summary of a date" }
func (*summaryCmd) Usage() string {
	return `fv summary [-d <date>]

  Displays the total market value, and its break down by owner, by owner and
  account filter, and by owner and account type.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the summary. Defaults to the latest available date.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	on, err := a.dateOrLatest(ctx, c.date)
	if err != nil {
		return a.failf(ctx, "Failed to fetch market summary: %v", err)
	}

	s, err := a.Client.Summary(ctx, on)
	if err != nil {
		return a.failf(ctx, "Failed to fetch market summary: %v", err)
	}
	return a.show(ctx, renderer.SummaryMarkdown(s, a.currency()))
}

// overviewCmd combines the summary of a date with the recent history.
type overviewCmd struct {
	date string
	days int
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display the market summary and the recent history" }
func (*overviewCmd) Usage() string {
	return `fv overview [-d <date>] [-days <n>]

  Displays the market summary of a date, followed by the market value history.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the summary. Defaults to the latest available date.")
	f.IntVar(&c.days, "days", 7, "Number of days of history")
}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if c.days <= 0 {
		fmt.Fprintf(a.Stderr, "Error: -days must be positive, got %d\n", c.days)
		return subcommands.ExitUsageError
	}

	var (
		summary *folio.Summary
		history []folio.HistoryPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		on, err := a.dateOrLatest(gctx, c.date)
		if err != nil {
			return fmt.Errorf("failed to fetch available dates: %w", err)
		}
		if summary, err = a.Client.Summary(gctx, on); err != nil {
			return fmt.Errorf("failed to fetch market summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if history, err = a.Client.History(gctx, c.days); err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return a.failf(ctx, "Error: %v", err)
	}

	var b strings.Builder
	b.WriteString(renderer.SummaryMarkdown(summary, a.currency()))
	b.WriteString("\n")
	b.WriteString(renderer.HistoryMarkdown(history, c.days, a.currency()))
	return a.show(ctx, b.String())
}

// historyCmd displays the market value over the last days.
type historyCmd struct {
	days int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the market value history" }
func (*historyCmd) Usage() string {
	return `fv history [-days <n>]

  Displays the total market value over the last days.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 7, "Number of days of history")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if c.days <= 0 {
		fmt.Fprintf(a.Stderr, "Error: -days must be positive, got %d\n", c.days)
		return subcommands.ExitUsageError
	}
	points, err := a.Client.History(ctx, c.days)
	if err != nil {
		return a.failf(ctx, "Failed to load history: %v", err)
	}
	return a.show(ctx, renderer.HistoryMarkdown(points, c.days, a.currency()))
}
