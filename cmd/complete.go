package cmd

import (
	"flag"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commands registered in c.
//
// Install it in bash with:
//
//	COMP_INSTALL=1 fv
func Completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		switch cmd.Name() {
		case "topic":
			sub.Args = complete.PredictFunc(func(string) []string {
				topics, _ := docs.GetAllTopics()
				return topics
			})
		case "delete":
			sub.Args = predict.Set{date.Today().String()}
		case "help":
			sub.Args = complete.PredictFunc(func(string) []string {
				var names []string
				c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
					names = append(names, cmd.Name())
				})
				return names
			})
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// flagPredictors predicts flag values: nothing for booleans, files for paths,
// today for dates.
func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	predictors := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			predictors[fl.Name] = predict.Nothing
			return
		}
		switch fl.Name {
		case "config":
			predictors[fl.Name] = predict.Files("*.yaml")
		case "log-file":
			predictors[fl.Name] = predict.Files("*")
		case "d":
			predictors[fl.Name] = predict.Set{date.Today().String()}
		default:
			predictors[fl.Name] = predict.Something
		}
	})
	return predictors
}
