package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/renderer"
)

type tipsCmd struct{}

func (*tipsCmd) Name() string     { return "tips" }
func (*tipsCmd) Synopsis() string { return "display financial tips computed from the transactions" }
func (*tipsCmd) Usage() string {
	return `fchat tips
`
}

func (*tipsCmd) SetFlags(f *flag.FlagSet) {}

func (*tipsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		tips := financechat.FinancialTips(a.session.Snapshot().Transactions())
		printMarkdown(renderer.TipsMarkdown(tips))
		return subcommands.ExitSuccess
	})
}
