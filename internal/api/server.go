// Package api serves the solve, animate and graph stages over HTTP.
//
// # Routes
//
//	POST /v1/solve    solve a scene and render its start state
//	POST /v1/animate  sample the transition of a scene
//	GET  /v1/graph    dependency graph of a scene stored by /v1/solve
//	GET  /healthz     liveness and build information
//
// Request bodies carry the scene either as a JSON document ("scene") or as
// TOML text ("toml"), plus the [pipeline.Options] fields. Errors are
// returned as {"error": {"code", "message"}} with the HTTP status of their
// code.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address of [Server.ListenAndServe].
	DefaultAddr = ":8080"

	// MaxBodyBytes bounds a request body.
	MaxBodyBytes = 4 << 20

	// RequestTimeout bounds the handling of one request.
	RequestTimeout = 30 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP front end of a [pipeline.Runner].
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server backed by runner. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/animate", s.handleAnimate)
		r.Get("/graph", s.handleGraph)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
