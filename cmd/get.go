package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

// getCmd prints the raw answer of any backend GET endpoint.
type getCmd struct {
	query string
}

func (*getCmd) Name() string     { return "get" }
func (*getCmd) Synopsis() string { return "print the raw JSON answer of a backend path" }
func (*getCmd) Usage() string {
	return `fv get [-q <jsonpath>] <path>

  Sends an authenticated GET to the backend and prints the JSON answer.
  The path is relative to the backend url, and may carry a query string:

    fv get '/portfolio/by-owner?asOf=2025-03-01'
    fv get -q '$[*].symbol' '/prices?asOf=2025-03-01'
`
}

func (c *getCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "JSONPath expression to extract from the answer")
}

func (c *getCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if f.NArg() != 1 {
		fmt.Fprintln(a.Stderr, "Error: exactly one path is required.")
		return subcommands.ExitUsageError
	}

	raw, err := a.Client.GetRaw(ctx, f.Arg(0))
	if err != nil {
		return a.failf(ctx, "Failed to fetch %s: %v", f.Arg(0), err)
	}

	var jobj any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &jobj); err != nil {
			return a.failf(ctx, "Error decoding answer of %s: %v", f.Arg(0), err)
		}
	}
	if c.query != "" {
		jval, err := jsonpath.Get(c.query, jobj)
		if err != nil {
			return a.failf(ctx, "Error evaluating %q: %v", c.query, err)
		}
		jobj = jval
	}

	out, err := json.MarshalIndent(jobj, "", "  ")
	if err != nil {
		return a.failf(ctx, "Error encoding answer: %v", err)
	}
	if ctx.Err() != nil {
		return subcommands.ExitFailure
	}
	fmt.Fprintln(a.Stdout, string(out))
	return subcommands.ExitSuccess
}
