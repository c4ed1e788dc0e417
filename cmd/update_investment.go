package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/renderer"
)

type updateInvestmentCmd struct{}

func (*updateInvestmentCmd) Name() string     { return "update-investment" }
func (*updateInvestmentCmd) Synopsis() string { return "set the current value of an investment" }
func (*updateInvestmentCmd) Usage() string {
	return `fchat update-investment <id> <value>

  Sets the current value of the investment. Ids are listed by 'fchat investments'.
`
}

func (*updateInvestmentCmd) SetFlags(f *flag.FlagSet) {}

func (*updateInvestmentCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: an id and a value are required")
		return subcommands.ExitUsageError
	}
	value, err := financechat.ParseAmount(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid value %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		inv, err := a.session.UpdateInvestment(ctx, f.Arg(0), value)
		var nf *financechat.NotFoundError
		switch {
		case errors.As(err, &nf):
			fmt.Fprintf(os.Stderr, "Error: no investment %q\n", nf.ID)
			return subcommands.ExitFailure
		case err != nil && !isPersistence(err):
			fmt.Fprintln(os.Stderr, "Error updating investment:", err)
			return subcommands.ExitFailure
		}
		warn(err)
		fmt.Println(renderer.InvestmentUpdated(inv))
		return subcommands.ExitSuccess
	})
}
