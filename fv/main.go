// Command fv is the terminal client of the portfolio backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/folio/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell completion.
	cmd.Completion(commander, flag.CommandLine).Complete("fv")

	flag.Parse()

	ctx := context.Background()
	app, err := cmd.Setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	status := commander.Execute(ctx, app)
	app.Close()
	os.Exit(int(status))
}
