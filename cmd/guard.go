package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio/auth"
	"github.com/google/subcommands"
)

const sessionEnded = "Your session has ended, please log in."

// protected is a view that requires a live session.
type protected struct {
	subcommands.Command
}

// protect wraps view with the session guard.
func protect(view subcommands.Command) subcommands.Command { return &protected{view} }

// Execute checks the session on every run, and runs the login view instead of
// the protected one when the session is missing or expired, or when it ends
// while the view runs (a 401 or the auto-logout).
func (p *protected) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	view := auth.Route[subcommands.Command](ctx, a.Session, p.Command, &loginCmd{})
	if view == p.Command {
		status := p.Command.Execute(ctx, f, args...)
		if ctx.Err() != nil || a.Session.State() == auth.Authenticated {
			return status
		}
		view = &loginCmd{}
	}
	fmt.Fprintln(a.Stderr, sessionEnded)
	return run(ctx, view, nil, args...)
}

// run executes c with its own flags parsed from argv.
func run(ctx context.Context, c subcommands.Command, argv []string, args ...interface{}) subcommands.ExitStatus {
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	f.SetOutput(appOf(args).Stderr)
	c.SetFlags(f)
	if err := f.Parse(argv); err != nil {
		return subcommands.ExitUsageError
	}
	return c.Execute(ctx, f, args...)
}
