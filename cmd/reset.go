package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type resetCmd struct {
	force bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete every transaction, investment and custom account" }
func (*resetCmd) Usage() string {
	return `fchat reset -f

  Deletes the whole state. Export it first to keep a copy.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "Confirm the deletion.")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.force {
		fmt.Fprintln(os.Stderr, "Error: reset deletes everything, use -f to confirm")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		err := a.session.Reset(ctx)
		if err != nil && !isPersistence(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		warn(err)
		if err := a.repo.Clear(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Todos os dados foram apagados.")
		return subcommands.ExitSuccess
	})
}
