package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/financechat/renderer"
)

type statementCmd struct{}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "display the latest transactions" }
func (*statementCmd) Usage() string {
	return `fchat statement

  Displays the last 10 transactions, most recent first.
`
}

func (*statementCmd) SetFlags(f *flag.FlagSet) {}

func (*statementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		printMarkdown(renderer.StatementMarkdown(a.session.Snapshot().Transactions()))
		return subcommands.ExitSuccess
	})
}
