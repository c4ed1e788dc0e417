package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/renderer"
)

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction written in plain Portuguese" }
func (*addCmd) Usage() string {
	return `fchat add <message>

  Reads the message as a transaction and records it, for instance:

    fchat add "Gastei R$ 50 no mercado do Itaú"
`
}

func (*addCmd) SetFlags(f *flag.FlagSet) {}

func (*addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text := strings.TrimSpace(strings.Join(f.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "Error: a message is required")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		tx, err := a.session.ParseAndRecord(ctx, text)
		if err != nil && !isPersistence(err) {
			fmt.Fprintln(os.Stderr, "Não consegui entender a transação:", reason(err))
			return subcommands.ExitFailure
		}
		warn(err)
		fmt.Println(renderer.Confirmation(tx))
		return subcommands.ExitSuccess
	})
}

func isPersistence(err error) bool {
	var pe *financechat.PersistenceError
	return errors.As(err, &pe)
}

// reason is the user facing explanation of a parse failure.
func reason(err error) string {
	var pe *financechat.ParseError
	if errors.As(err, &pe) {
		return pe.Reason.String()
	}
	return err.Error()
}
