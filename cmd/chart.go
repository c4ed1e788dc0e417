package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/financechat/renderer"
)

type chartCmd struct{}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw a chart as text bars" }
func (*chartCmd) Usage() string {
	return `fchat chart <name>...

  Draws the named charts: ` + strings.Join(renderer.ChartNames(), ", ") + `.
  A chart without data is not drawn.
`
}

func (*chartCmd) SetFlags(f *flag.FlagSet) {}

func (*chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a chart name is required, one of", strings.Join(renderer.ChartNames(), ", "))
		return subcommands.ExitUsageError
	}
	var panels []*renderer.Panel
	for _, name := range f.Args() {
		p, err := renderer.NewChartPanel(name, renderer.TextSinkFactory(os.Stdout))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		panels = append(panels, p)
	}

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		dash := renderer.NewDashboard(a.session.Snapshot, nil, panels...)
		defer dash.Close()
		if err := dash.Refresh(); err != nil {
			fmt.Fprintln(os.Stderr, "Error drawing chart:", err)
			return subcommands.ExitFailure
		}
		for _, p := range panels {
			if !p.Live() {
				fmt.Printf("%s: sem dados.\n", p.Name)
			}
		}
		return subcommands.ExitSuccess
	})
}
