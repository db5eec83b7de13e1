package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Sumatoshi-tech/linseg/pkg/config"
)

// ErrShuttingDown is reported by the readiness check once shutdown began.
var ErrShuttingDown = errors.New("server is shutting down")

// Server is the HTTP front of the edit service.
type Server struct {
	cfg      config.ServerConfig
	logger   *slog.Logger
	server   *http.Server
	listener net.Listener
	draining atomic.Bool
	done     chan error
}

// New creates a server for cfg. It does not listen until Start.
func New(cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{cfg: cfg, logger: logger}
}

// Ready is a readiness check that fails once Shutdown was called.
func (s *Server) Ready(_ context.Context) error {
	if s.draining.Load() {
		return ErrShuttingDown
	}

	return nil
}

// Start listens on the configured address and serves handler in the
// background.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(context.WithoutCancel(ctx), "tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.done = make(chan error, 1)

	go func() {
		serveErr := s.server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.done <- fmt.Errorf("serve: %w", serveErr)

			return
		}

		s.done <- nil
	}()

	s.logger.InfoContext(ctx, "server listening", "addr", s.Addr())

	return nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr()
	}

	return s.listener.Addr().String()
}

// Shutdown marks the server unready, keeps serving for the configured drain
// delay so that load balancers observe the failing readiness check, and then
// drains in-flight requests. The delay is cut short when ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.draining.Store(true)

	if s.server == nil {
		return nil
	}

	if s.cfg.DrainDelay > 0 {
		s.logger.InfoContext(ctx, "server draining", "delay", s.cfg.DrainDelay)

		timer := time.NewTimer(s.cfg.DrainDelay)

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return <-s.done
}

// Run starts the server and blocks until ctx is cancelled or serving fails,
// then shuts down within the configured timeout.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	err := s.Start(ctx, handler)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case serveErr := <-s.done:
		return serveErr
	}

	s.logger.InfoContext(ctx, "server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	return s.Shutdown(shutdownCtx)
}
