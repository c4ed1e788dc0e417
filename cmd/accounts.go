package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/renderer"
)

type accountsCmd struct {
	add string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the known accounts, or add one" }
func (*accountsCmd) Usage() string {
	return `fchat accounts [-add <name>]
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Name of an account to add.")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		if c.add != "" {
			name := financechat.Sanitize(c.add)
			added, err := a.session.AddAccount(ctx, name)
			if !added {
				fmt.Fprintf(os.Stderr, "Error: account %q is empty or already exists\n", name)
				return subcommands.ExitFailure
			}
			warn(err)
		}
		printMarkdown(renderer.AccountsMarkdown(a.session.Accounts()))
		return subcommands.ExitSuccess
	})
}
