package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/financechat/internal/log"
	"github.com/etnz/financechat/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the chat and the reports as a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `fchat serve [-addr <host:port>]

  Serves the API until interrupted. Every change is saved as it happens, the
  state is saved once more on shutdown.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on. Overrides FCHAT_ADDR.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		addr := a.cfg.Addr
		if c.addr != "" {
			addr = c.addr
		}
		srv := server.New(a.session, server.Config{RateLimit: a.cfg.RateLimit, RateBurst: a.cfg.RateBurst}, a.logger)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.ListenAndServe(gctx, addr)
		})
		g.Go(func() error {
			<-gctx.Done()
			// the context is done, saving needs its own.
			err := a.repo.Save(context.Background(), a.session.Snapshot())
			if err == nil {
				a.logger.Info("state saved", log.FieldOperation, log.OpShutdown)
			}
			return err
		})
		if err := g.Wait(); err != nil {
			fmt.Fprintln(os.Stderr, "Server failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}
