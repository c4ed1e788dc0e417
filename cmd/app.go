// Package cmd implements the CLI application to track personal finances.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/assist"
	"github.com/etnz/financechat/chat"
	"github.com/etnz/financechat/internal/config"
	"github.com/etnz/financechat/internal/log"
	"github.com/etnz/financechat/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&chatCmd{}, "chat")
	c.Register(&addCmd{}, "chat")
	c.Register(&investCmd{}, "chat")
	c.Register(&updateInvestmentCmd{}, "chat")
	c.Register(&accountsCmd{}, "chat")

	c.Register(&balanceCmd{}, "reports")
	c.Register(&statementCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&investmentsCmd{}, "reports")
	c.Register(&tipsCmd{}, "reports")
	c.Register(&chartCmd{}, "reports")

	c.Register(&importCmd{}, "data")
	c.Register(&exportCmd{}, "data")
	c.Register(&resetCmd{}, "data")

	c.Register(&serveCmd{}, "server")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var backend = flag.String("backend", "", "Storage backend (memory, file, sqlite). Overrides FCHAT_BACKEND.")
var dataFile = flag.String("data-file", "", "Path to the data file of the file backend. Overrides FCHAT_DATA_FILE.")

// Verbose turns on debug logs.
var Verbose = flag.Bool("v", false, "Print debug logs.")

// app is what every command needs: the configuration, the repository and a
// session over the stored state.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	store   store.Store
	repo    *store.Repository
	session *chat.Session
}

// loadConfig reads the configuration, global flags included.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}
	cfg := config.Load()
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp loads the stored state into a new session.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger()

	path := cfg.DataFile
	if cfg.Backend == "sqlite" {
		path = cfg.SQLitePath
	}
	st, err := store.Open(cfg.Backend, path)
	if err != nil {
		return nil, err
	}
	repo := store.NewRepository(st, cfg.StorageKey, logger)
	state, err := repo.Load(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}

	session := chat.NewSession(state, repo, logger)
	if cfg.AssistEnabled() {
		g, err := assist.NewGemini(ctx, cfg.GeminiAPIKey, cfg.AssistModel, logger)
		if err != nil {
			// the assistant is optional, the parser alone still works.
			logger.Warn("assistant disabled", log.FieldOperation, log.OpStartup, "error", err)
		} else {
			session.SetClassifier(g)
		}
	}
	logger.Debug("state loaded", log.FieldOperation, log.OpLoad, log.FieldCount, state.Len(), "backend", cfg.Backend)
	return &app{cfg: cfg, logger: logger, store: st, repo: repo, session: session}, nil
}

func (a *app) Close() error { return a.store.Close() }

// withApp runs f on an opened app and closes it.
func withApp(ctx context.Context, f func(*app) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return f(a)
}

// warn prints the warning of a change that was not saved.
func warn(err error) {
	var pe *financechat.PersistenceError
	if errors.As(err, &pe) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", pe)
	}
}

// renderMarkdown renders md for the terminal, or returns it as is when it cannot.
func renderMarkdown(md string) string {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Print(renderMarkdown(md)) }
