package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// loginCmd is the login view.
type loginCmd struct {
	user     string
	password string
	force    bool
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in to the portfolio backend" }
func (*loginCmd) Usage() string {
	return `fv login [-u <user>] [-p <password>] [-force]

  Logs in to the backend and keeps the session token for the next commands.
  Missing credentials are prompted for. Once logged in, the home view is displayed.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "User name")
	f.StringVar(&c.password, "p", "", "Password. Prompted for when missing")
	f.BoolVar(&c.force, "force", false, "Log in again even if the session is still valid")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)

	// the login view is not reachable with a live session, it goes home instead.
	if !c.force && !a.Session.IsTokenExpired() {
		return run(ctx, protect(&datesCmd{}), nil, args...)
	}

	user, password := c.user, c.password
	var err error
	if user == "" {
		if user, err = a.readLine("Username: "); err != nil {
			fmt.Fprintf(a.Stderr, "Error reading username: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if password == "" {
		if password, err = a.readPassword("Password: "); err != nil {
			fmt.Fprintf(a.Stderr, "Error reading password: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	token, err := a.Client.Login(ctx, folio.Credentials{UserName: user, Password: password})
	if err != nil {
		log.Printf("login failed: %v", err)
		return a.failf(ctx, "Invalid login credentials")
	}
	if err := a.Session.Login(ctx, token); err != nil {
		// the session is live in memory, only its persistence failed.
		fmt.Fprintf(a.Stderr, "Warning: the session will not survive this process: %v\n", err)
	}
	if exp, ok := a.Session.ExpiresAt(); ok {
		fmt.Fprintf(a.Stdout, "Logged in as %s until %s.\n", user, exp.Local().Format(time.Kitchen))
	} else {
		fmt.Fprintf(a.Stdout, "Logged in as %s.\n", user)
	}

	return run(ctx, protect(&datesCmd{}), nil, args...)
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session" }
func (*logoutCmd) Usage() string {
	return `fv logout

  Forgets the session token.
`
}

func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if err := a.Session.Logout(ctx); err != nil {
		fmt.Fprintf(a.Stderr, "Error clearing the session: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(a.Stdout, "Logged out.")
	return subcommands.ExitSuccess
}

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "display the session state" }
func (*statusCmd) Usage() string {
	return `fv status

  Displays whether a session is open, and when it expires.
`
}

func (*statusCmd) SetFlags(f *flag.FlagSet) {}

func (*statusCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	s := renderer.SessionStatus{
		Backend: a.Client.BaseURL(),
		State:   a.Session.State().String(),
		Now:     time.Now(),
	}
	if exp, ok := a.Session.ExpiresAt(); ok {
		s.ExpiresAt = exp
	}
	return a.show(ctx, renderer.SessionMarkdown(s))
}
