// Package server exposes the planner over a JSON HTTP API.
//
// The engine is single-threaded; every handler takes the server mutex
// before touching it, so requests apply one at a time in arrival order.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/javiermolinar/semana/internal/engine"
	"github.com/javiermolinar/semana/internal/logging"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":5000"

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second

	// maxBodyBytes bounds request bodies, imports included.
	maxBodyBytes = 10 << 20
)

// Options configures a Server.
type Options struct {
	Addr   string
	Logger *slog.Logger

	// Metrics serves GET /metrics when non-nil.
	Metrics http.Handler
}

// Server serves the planner API.
type Server struct {
	mu      sync.Mutex
	engine  *engine.Engine
	logger  *slog.Logger
	metrics http.Handler
	addr    string
	now     func() time.Time
}

// New creates a Server around e.
func New(e *engine.Engine, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Server{
		engine:  e,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		addr:    opts.Addr,
		now:     time.Now,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleEditTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/schedule", s.handleSchedule)
	mux.HandleFunc("POST /api/scheduled/{id}/move", s.handleMove)
	mux.HandleFunc("POST /api/scheduled/{id}/resize", s.handleResize)
	mux.HandleFunc("POST /api/scheduled/{id}/copy", s.handleCopy)
	mux.HandleFunc("POST /api/scheduled/{id}/return", s.handleReturn)
	mux.HandleFunc("DELETE /api/scheduled/{id}", s.handleUnschedule)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)

	return chain(mux, withRecover(s.logger), withRequestLog(s.logger))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		s.logger.Info("http server listening", slog.String("addr", s.addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, stopping http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("http server stopped with error: %w", err)
		}
	}

	s.logger.Info("http server stopped")
	return nil
}
