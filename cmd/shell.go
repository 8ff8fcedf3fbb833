package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/etnz/folio/auth"
	"github.com/google/subcommands"
)

// shellCmd is the long running session: it reads views from Stdin and runs
// them one after the other, until exit or end of input.
type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "run views interactively" }
func (*shellCmd) Usage() string {
	return `fv shell

  Starts an interactive session. Each line is a view with its flags, as on
  the command line, for instance:

    fv> summary -d 2025-03-01
    fv> history -days 30

  Ctrl-C interrupts the running view. 'exit', 'quit' or end of input leave
  the shell. When the session ends, the login view is displayed.
`
}

func (*shellCmd) SetFlags(f *flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)

	// the auto-logout timer fires on its own goroutine, the loop below is told through ended.
	ended := make(chan struct{}, 1)
	cancel := a.Session.Subscribe(func(s auth.State) {
		if s != auth.Anonymous {
			return
		}
		select {
		case ended <- struct{}{}:
		default:
		}
	})
	defer cancel()

	topFlags := flag.NewFlagSet("fv", flag.ContinueOnError)
	topFlags.SetOutput(a.Stderr)
	commander := subcommands.NewCommander(topFlags, "fv")
	commander.Output, commander.Error = a.Stdout, a.Stderr
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	registerViews(commander)

	login := func(notice string) {
		fmt.Fprintln(a.Stderr, notice)
		// drained: the login view handles this session end.
		select {
		case <-ended:
		default:
		}
		a.runView(ctx, func(vctx context.Context) subcommands.ExitStatus {
			return run(vctx, &loginCmd{}, nil, args...)
		})
	}

	if !a.Session.Admit(ctx) {
		login("Please log in.")
	}

	in := a.input()
	for {
		// a view may already have shown the login view for this session end.
		select {
		case <-ended:
			if a.Session.State() == auth.Anonymous {
				login(sessionEnded)
				continue
			}
		default:
		}

		fmt.Fprint(a.Stdout, "fv> ")
		var res lineResult
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-ended:
			fmt.Fprintln(a.Stdout)
			login(sessionEnded)
			continue
		case res = <-in.next():
		}
		line, err := in.take(res)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.Stdout)
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(a.Stderr, "Error reading input: %v\n", err)
			return subcommands.ExitFailure
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		switch words[0] {
		case "exit", "quit":
			return subcommands.ExitSuccess
		case "shell":
			fmt.Fprintln(a.Stderr, "Already in the shell.")
			continue
		}

		if err := topFlags.Parse(words); err != nil {
			continue
		}
		a.runView(ctx, func(vctx context.Context) subcommands.ExitStatus {
			return commander.Execute(vctx, a)
		})
	}
}

// runView runs view with a context cancelled by Ctrl-C, so that an
// interrupted view drops its late answer instead of printing it.
func (a *App) runView(ctx context.Context, view func(context.Context) subcommands.ExitStatus) subcommands.ExitStatus {
	vctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return view(vctx)
}

type lineResult struct {
	line string
	err  error
}

// lineReader reads Stdin one line at a time, in the background, so that the
// shell can wait for a line and for the end of the session at once.
//
// It is used by one goroutine only. At most one read is in flight, and the
// next call to line or next receives it.
type lineReader struct {
	r       *bufio.Reader
	pending chan lineResult
}

// reading reports whether a read is in flight.
func (l *lineReader) reading() bool { return l.pending != nil }

// next starts reading a line, unless a read is already in flight.
func (l *lineReader) next() <-chan lineResult {
	if l.pending == nil {
		ch := make(chan lineResult, 1)
		l.pending = ch
		go func() {
			s, err := l.r.ReadString('\n')
			ch <- lineResult{s, err}
		}()
	}
	return l.pending
}

// take completes the read in flight with its result res.
func (l *lineReader) take(res lineResult) (string, error) {
	l.pending = nil
	if res.err != nil && (!errors.Is(res.err, io.EOF) || res.line == "") {
		return "", res.err
	}
	return strings.TrimRight(res.line, "\r\n"), nil
}

// line reads the next line.
func (l *lineReader) line() (string, error) { return l.take(<-l.next()) }
