// Package server exposes the equation compiler over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leapplot/internal/config"
	"github.com/leapstack-labs/leapplot/internal/examples"
	"github.com/leapstack-labs/leapplot/internal/observability"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/leapstack-labs/leapplot/pkg/compiler"
	"github.com/leapstack-labs/leapplot/pkg/core"
	"golang.org/x/sync/errgroup"
)

// maxBodyBytes caps request bodies; equations are short.
const maxBodyBytes = 64 << 10

// Server is the HTTP API server.
type Server struct {
	compiler *compiler.Compiler
	sampling config.SamplingConfig
	server   config.ServerConfig
	store    state.Store
	metrics  observability.MetricsRecorder
	provider *observability.Provider
	examples []examples.Example
	logger   *slog.Logger
}

// Config holds configuration for the HTTP server.
type Config struct {
	Compiler *compiler.Compiler
	Sampling config.SamplingConfig
	Server   config.ServerConfig
	// Store records every parse and sample request. Optional.
	Store state.Store
	// Metrics defaults to a recorder on Provider, or a no-op recorder.
	Metrics observability.MetricsRecorder
	// Provider backs GET /debug/metrics. Optional.
	Provider *observability.Provider
	Logger   *slog.Logger
}

// NewServer creates a new server instance.
func NewServer(cfg Config) (*Server, error) {
	list, err := examples.Load()
	if err != nil {
		return nil, err
	}

	s := &Server{
		compiler: cfg.Compiler,
		sampling: cfg.Sampling,
		server:   cfg.Server,
		store:    cfg.Store,
		metrics:  cfg.Metrics,
		provider: cfg.Provider,
		examples: list,
		logger:   cfg.Logger,
	}
	if s.compiler == nil {
		s.compiler = compiler.Default()
	}
	if s.sampling == (config.SamplingConfig{}) {
		s.sampling = config.DefaultSampling()
	}
	if s.server.Addr == "" {
		s.server = config.DefaultServer()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.metrics == nil {
		if s.provider != nil {
			s.metrics = observability.NewMetricsRecorder(s.provider)
		} else {
			s.metrics = observability.NoopMetrics{}
		}
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		instrument(s.logger, s.metrics),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/equation", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodyBytes))
		r.Post("/parse", s.handleParse)
		r.Post("/sample", s.handleSample)
		r.Get("/examples", s.handleExamples)
		r.Get("/history", s.handleHistory)
	})

	if s.provider != nil && s.server.Metrics {
		r.Get("/debug/metrics", s.handleMetrics)
	}

	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting HTTP server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.server.ReadHeaderTimeout,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		timeout := s.server.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Debug("shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// record stores a compile outcome; failures are logged, never returned.
func (s *Server) record(ctx context.Context, raw string, prog *compiler.Program, reason string, cerr error) {
	if s.store == nil {
		return
	}
	rec := &state.Record{Raw: raw, Valid: reason == "", Reason: reason, Source: state.SourceServer}
	if prog != nil {
		rec.Canonical = prog.Canonical
	}
	if cerr != nil {
		rec.Error = cerr.Error()
	}
	if err := s.store.RecordCompile(ctx, rec); err != nil {
		s.logger.Warn("failed to record compile", "error", err)
	}
}

func (s *Server) compile(ctx context.Context, raw string) (*compiler.Program, error) {
	start := time.Now()
	prog, err := s.compiler.Compile(raw)
	s.metrics.RecordCompile(ctx, core.ReasonOf(err), time.Since(start))
	return prog, err
}
