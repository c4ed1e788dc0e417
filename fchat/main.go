package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/cmd"
	"github.com/etnz/financechat/docs"
	"github.com/etnz/financechat/internal/config"
	"github.com/etnz/financechat/renderer"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// Exits when called by the shell to complete a command line.
	completion(commander).Complete("fchat")

	flag.Parse()

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		found = found || c.Name() == name
	})
	return found
}

// completion describes the command line of every subcommand for the shell.
func completion(commander *subcommands.Commander) *complete.Command {
	files := predict.Files("*")
	args := map[string]complete.Predictor{
		"add":    predict.Nothing,
		"chart":  predict.Set(renderer.ChartNames()),
		"import": predict.Or(predict.Files("*.csv"), predict.Files("*.json")),
		"invest": predict.Set(investmentTypes()),
		"topic":  predict.Set(topicNames()),
	}
	// flags taking a value whose values are known.
	values := map[string]complete.Predictor{
		"backend":   predict.Set(config.Backends),
		"charts":    predict.Set(renderer.ChartNames()),
		"data-file": files,
		"o":         files,
	}

	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine, values),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flagPredictors(fs, values),
			Args:  args[c.Name()],
		}
	})
	return root
}

func flagPredictors(fs *flag.FlagSet, values map[string]complete.Predictor) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := values[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Nothing
	})
	return flags
}

func investmentTypes() []string {
	var types []string
	for _, t := range financechat.InvestmentTypes() {
		types = append(types, string(t))
	}
	return types
}

func topicNames() []string {
	names, _ := docs.TopicNames()
	return append(names, "readme", "*")
}
