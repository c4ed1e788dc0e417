package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/financechat/renderer"
)

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the balance of every account" }
func (*balanceCmd) Usage() string {
	return `fchat balance

  Displays the balance of every account and their total.
`
}

func (*balanceCmd) SetFlags(f *flag.FlagSet) {}

func (*balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		printMarkdown(renderer.BalanceMarkdown(a.session.Snapshot().Transactions()))
		return subcommands.ExitSuccess
	})
}
