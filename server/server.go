// Package server serves the review UI and its JSON API over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/reviewqueue/config"
	"github.com/s0up4200/reviewqueue/metrics"
	"github.com/s0up4200/reviewqueue/submission"
)

//go:embed static
var staticFiles embed.FS

// Server is the review HTTP server
type Server struct {
	httpServer      *http.Server
	api             submission.API
	statuses        []string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// New creates a server with routes and middleware configured
func New(cfg *config.Config, api submission.API, logger zerolog.Logger) *Server {
	s := &Server{
		api:             api,
		statuses:        cfg.Review.Statuses,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          logger.With().Str("component", "server").Logger(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(metrics.Middleware())
	r.Use(Recoverer(s.logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.handleIndex)
	r.Get("/record/{index}", s.handleRecordByIndex)
	r.Get("/nextrecord", s.handleNextRecord)
	r.Get("/statuses", s.handleStatuses)

	r.Route("/records", func(r chi.Router) {
		r.Get("/", s.handleListRecords)
		r.Get("/{id}", s.handleGetRecord)
		r.Patch("/{id}/status", s.handleSetStatus)
	})

	r.Get("/health/live", s.handleHealthLive)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server started")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info().Msg("Shutting down HTTP server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		s.logger.Info().Msg("HTTP server stopped")
		return nil
	})

	return g.Wait()
}

func indexPage() ([]byte, error) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(sub, "index.html")
}
