package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gaian-hq/gaian/pkg/config"
	"gaian-hq/gaian/pkg/export/gate"
	"gaian-hq/gaian/pkg/governance/engine"
	"gaian-hq/gaian/pkg/sink"
	"gaian-hq/gaian/pkg/telemetry/health"
	"gaian-hq/gaian/pkg/telemetry/metrics"
)

// Server is the HTTP server for the governance service.
type Server struct {
	config    *config.ServerConfig
	engine    *engine.Engine
	gate      *gate.DataGate
	sink      *sink.Sink
	collector *metrics.Collector
	checker   *health.Checker

	metricsPath string
	version     VersionInfo

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// VersionInfo carries build information for the version endpoint.
type VersionInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options bundles the collaborators for NewServer. Engine and Gate are
// required; the rest are optional.
type Options struct {
	Engine    *engine.Engine
	Gate      *gate.DataGate
	Sink      *sink.Sink
	Collector *metrics.Collector
	Checker   *health.Checker

	// MetricsPath is where the Prometheus handler is mounted. Ignored
	// when Collector is nil.
	MetricsPath string

	Version VersionInfo
}

// NewServer creates the governance HTTP server.
func NewServer(cfg *config.ServerConfig, opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("governance engine is required")
	}
	if opts.Gate == nil {
		return nil, fmt.Errorf("export gate is required")
	}

	checker := opts.Checker
	if checker == nil {
		checker = health.New(0)
	}
	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	return &Server{
		config:       cfg,
		engine:       opts.Engine,
		gate:         opts.Gate,
		sink:         opts.Sink,
		collector:    opts.Collector,
		checker:      checker,
		metricsPath:  metricsPath,
		version:      opts.Version,
		shutdownChan: make(chan struct{}),
	}, nil
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting governance server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("governance server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is accepting requests.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Checker returns the health checker so callers can register probes.
func (s *Server) Checker() *health.Checker {
	return s.checker
}

// setupRoutes configures routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/actions", s.handleAction)
	mux.HandleFunc("POST /api/v1/exports", s.handleExport)
	mux.HandleFunc("GET /api/v1/audit", s.handleAudit)
	mux.HandleFunc("POST /api/v1/admin/reset-flags", s.handleResetFlags)
	mux.HandleFunc("POST /api/v1/admin/reset-novelty", s.handleResetNovelty)

	mux.HandleFunc("/healthz", s.checker.LivenessHandler())
	mux.HandleFunc("/readyz", s.checker.ReadinessHandler())
	mux.HandleFunc("/version", health.VersionHandler(
		s.version.Version, s.version.Commit, s.version.BuildTime))

	if s.collector != nil {
		mux.Handle("GET "+s.metricsPath, s.collector.Handler())
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)

	return handler
}
