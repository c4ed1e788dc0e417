package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/financechat/renderer"
)

type investmentsCmd struct{}

func (*investmentsCmd) Name() string     { return "investments" }
func (*investmentsCmd) Synopsis() string { return "display the investment portfolio and its performance" }
func (*investmentsCmd) Usage() string {
	return `fchat investments

  Displays the portfolio by type and account, then every investment with
  its id, initial and current value.
`
}

func (*investmentsCmd) SetFlags(f *flag.FlagSet) {}

func (*investmentsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		printMarkdown(renderer.InvestmentsMarkdown(a.session.Snapshot().Investments()))
		return subcommands.ExitSuccess
	})
}
