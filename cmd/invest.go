package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/renderer"
)

type investCmd struct {
	account string
}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "record an investment" }
func (*investCmd) Usage() string {
	return `fchat invest [-a <account>] <type> <amount>

  Records the amount invested from the account into an asset of the given
  type: acoes, fundos, renda-fixa, criptomoedas, tesouro-direto or outros.
`
}

func (c *investCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", financechat.DefaultAccount, "Account the money comes from.")
}

func (c *investCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: a type and an amount are required")
		return subcommands.ExitUsageError
	}
	typ, err := financechat.ParseInvestmentType(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	amount, err := financechat.ParseAmount(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		account := financechat.Sanitize(c.account)
		for _, known := range a.session.Accounts() {
			if strings.EqualFold(known, account) {
				account = known
			}
		}
		tx, inv, err := a.session.Invest(ctx, typ, amount, account)
		if err != nil && !isPersistence(err) {
			fmt.Fprintln(os.Stderr, "Error recording investment:", err)
			return subcommands.ExitFailure
		}
		warn(err)
		fmt.Println(renderer.Confirmation(tx))
		fmt.Println("id:", inv.ID)
		return subcommands.ExitSuccess
	})
}
