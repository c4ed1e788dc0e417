package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/financechat/chat"
	"github.com/etnz/financechat/renderer"
)

type chatCmd struct {
	charts string
	plain  bool
}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "start a conversation to record and review transactions" }
func (*chatCmd) Usage() string {
	return `fchat chat [-charts <name,...>] [-plain] [<message>...]

  Starts an interactive conversation. Every line is either a transaction
  ("Gastei R$ 50 no mercado") or a command (/saldo, /extrato, /help).
  Arguments are sent as the first message.

  With -charts, the named charts are redrawn after every change.
`
}

func (c *chatCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.charts, "charts", "", "Comma separated charts to redraw after every change: "+strings.Join(renderer.ChartNames(), ", ")+".")
	f.BoolVar(&c.plain, "plain", false, "Print replies as raw markdown.")
}

func (c *chatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		var panels []*renderer.Panel
		for _, name := range strings.Split(c.charts, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			p, err := renderer.NewChartPanel(name, renderer.TextSinkFactory(os.Stdout))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return subcommands.ExitUsageError
			}
			panels = append(panels, p)
		}
		if len(panels) > 0 {
			dash := renderer.NewDashboard(a.session.Snapshot, func(err error) {
				a.logger.Warn("chart refresh failed", "error", err)
			}, panels...)
			dash.Debounce(a.cfg.ChartDebounce)
			defer dash.Close()
			a.session.OnChange(dash.Trigger)
			if err := dash.Refresh(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}

		repl := chat.NewREPL(os.Stdout, os.Stdin, a.session)
		if !c.plain {
			repl.Render = renderMarkdown
		}
		var prompts []string
		if f.NArg() > 0 {
			prompts = append(prompts, strings.Join(f.Args(), " "))
		}
		if err := repl.Run(ctx, prompts...); err != nil {
			fmt.Fprintln(os.Stderr, "Chat failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}
