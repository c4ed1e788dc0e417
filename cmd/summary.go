package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/financechat/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the totals by kind and the recent transactions" }
func (*summaryCmd) Usage() string {
	return `fchat summary

  Displays the total income, expenses, investments and transfers, the
  resulting balance, and the most recent transactions.
`
}

func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		printMarkdown(renderer.SummaryMarkdown(a.session.Snapshot().Transactions()))
		return subcommands.ExitSuccess
	})
}
