// Package server manages the HTTP server lifecycle, including graceful
// shutdown of the server and its backing components.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownFunc shuts down one component.
type ShutdownFunc func(ctx context.Context) error

// Server wraps http.Server with signal handling and ordered shutdown.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger

	mu            sync.Mutex
	shutdownFuncs []ShutdownFunc
}

// New builds a Server listening on the given port.
func New(handler http.Handler, port int, readTimeout, writeTimeout, shutdownTimeout time.Duration, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// OnShutdown registers a component to stop during graceful shutdown.
// Components stop in reverse registration order, after in-flight HTTP
// requests have drained, so register the database before anything that
// still needs it while draining.
func (s *Server) OnShutdown(name string, fn ShutdownFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownFuncs = append(s.shutdownFuncs, func(ctx context.Context) error {
		s.logger.Info("shutting down component", "name", name)
		if err := fn(ctx); err != nil {
			s.logger.Error("component shutdown error", "name", name, "error", err)
			return err
		}
		s.logger.Info("component stopped", "name", name)
		return nil
	})
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		s.logger.Info("shutdown signal received", "signal", sig.String())
		return s.shutdown()
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("draining HTTP server", "timeout", s.shutdownTimeout)
	s.httpServer.SetKeepAlivesEnabled(false)
	if err := s.httpServer.Shutdown(ctx); err != nil {
		// Keep going; backing components still need to close.
		s.logger.Error("HTTP server shutdown error", "error", err)
	}
	s.logger.Info("HTTP server stopped")

	s.mu.Lock()
	funcs := s.shutdownFuncs
	s.mu.Unlock()

	var firstErr error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}

	s.logger.Info("server stopped gracefully")
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
