package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `fv topic [-l] [<topic>...]

  Shows documentation for the given topics, the overview by default.
  '*' stands for every topic.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "List the topics")
}

func (c *topicCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if c.list {
		topics, err := docs.GetAllTopics()
		if err != nil {
			fmt.Fprintf(a.Stderr, "Error listing topics: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, t := range topics {
			fmt.Fprintln(a.Stdout, t)
		}
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Readme}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	return a.show(ctx, doc)
}
