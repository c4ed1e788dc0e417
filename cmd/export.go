package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/financechat"
)

type exportCmd struct {
	output      string
	json        bool
	investments bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions or investments as CSV, or everything as JSON" }
func (*exportCmd) Usage() string {
	return `fchat export [-o <file>] [-investments | -json]

  Writes the transactions as CSV to the standard output or to the file.
  With -investments, writes the investments instead. With -json, writes the
  whole state, custom accounts included, in the format read by 'import -json'.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
	f.BoolVar(&c.json, "json", false, "Export the whole state as JSON.")
	f.BoolVar(&c.investments, "investments", false, "Export the investments.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.json && c.investments {
		fmt.Fprintln(os.Stderr, "Error: -json and -investments are exclusive")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		var w io.Writer = os.Stdout
		if c.output != "" {
			file, err := os.Create(c.output)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
				return subcommands.ExitFailure
			}
			defer file.Close()
			w = file
		}

		s := a.session.Snapshot()
		var err error
		switch {
		case c.json:
			var data []byte
			if data, err = financechat.EncodeState(s); err == nil {
				_, err = w.Write(data)
			}
		case c.investments:
			err = financechat.ExportInvestments(w, s.Investments())
		default:
			err = financechat.ExportTransactions(w, s.Transactions())
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error exporting:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}
