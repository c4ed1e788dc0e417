// Package server exposes a chat session as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/etnz/financechat/chat"
	"github.com/etnz/financechat/internal/log"
)

// Config tunes the server.
type Config struct {
	RateLimit float64 // RateLimit is the number of requests per second allowed.
	RateBurst int
}

// Server serves the API of one session.
type Server struct {
	session *chat.Session
	router  chi.Router
	limiter *rate.Limiter
	logger  *log.Logger
}

// New creates the server of session.
func New(session *chat.Session, config Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{
		session: session,
		logger:  logger.WithComponent(log.ComponentHTTP),
	}
	if config.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), max(config.RateBurst, 1))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.rateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Post("/messages", s.handleMessage)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/investments", s.handleInvestments)
		r.Post("/investments", s.handleInvest)
		r.Put("/investments/{id}", s.handleUpdateInvestment)
		r.Get("/accounts", s.handleAccounts)
		r.Post("/accounts", s.handleAddAccount)
		r.Get("/summary", s.handleSummary)
		r.Get("/balances", s.handleBalances)
		r.Get("/tips", s.handleTips)
		r.Get("/charts", s.handleChartNames)
		r.Get("/charts/{name}", s.handleChart)
		r.Get("/export/{file}", s.handleExport)
		r.Post("/import/{what}", s.handleImport)
		r.Get("/state", s.handleGetState)
		r.Put("/state", s.handlePutState)
		r.Delete("/state", s.handleDeleteState)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down", log.FieldOperation, log.OpShutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
