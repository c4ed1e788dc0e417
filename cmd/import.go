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

type importCmd struct {
	json        bool
	investments bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions or investments from CSV, or restore a JSON export" }
func (*importCmd) Usage() string {
	return `fchat import [-investments | -json] [<file>]

  Reads the file, or the standard input, and adds the transactions it
  contains. Columns are matched by their header name. Lines that cannot be
  read, or whose id is already known, are skipped and reported.

  With -investments, the file contains investments. With -json, the file is
  a JSON export that replaces the whole state.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Replace the state by a JSON export.")
	f.BoolVar(&c.investments, "investments", false, "The file contains investments.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.json && c.investments {
		fmt.Fprintln(os.Stderr, "Error: -json and -investments are exclusive")
		return subcommands.ExitUsageError
	}
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: at most one file can be imported")
		return subcommands.ExitUsageError
	}

	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "" && name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		if c.json {
			return c.restore(ctx, a, r)
		}
		var report financechat.ImportReport
		var err error
		if c.investments {
			report, err = a.session.ImportInvestments(ctx, r)
		} else {
			report, err = a.session.ImportTransactions(ctx, r)
		}
		if err != nil && !isPersistence(err) {
			fmt.Fprintln(os.Stderr, "Error importing:", err)
			return subcommands.ExitFailure
		}
		warn(err)
		for _, e := range report.Skipped {
			fmt.Fprintln(os.Stderr, e)
		}
		fmt.Println(report)
		return subcommands.ExitSuccess
	})
}

func (c *importCmd) restore(ctx context.Context, a *app, r io.Reader) subcommands.ExitStatus {
	data, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading:", err)
		return subcommands.ExitFailure
	}
	state, decodeErr := financechat.DecodeState(data)
	if decodeErr != nil {
		fmt.Fprintln(os.Stderr, "Warning:", decodeErr)
	}
	err = a.session.Replace(ctx, state)
	if err != nil && !isPersistence(err) {
		fmt.Fprintln(os.Stderr, "Error restoring:", err)
		return subcommands.ExitFailure
	}
	warn(err)
	fmt.Printf("%d transações e %d investimentos restaurados.\n", state.Len(), len(state.Investments()))
	return subcommands.ExitSuccess
}
