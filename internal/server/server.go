// Package server exposes the attention engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dhalvorsen/focal/internal/config"
	"github.com/dhalvorsen/focal/internal/data"
	"github.com/dhalvorsen/focal/internal/metrics"
)

// Server wires the attention engine, the audit store and the metrics
// collector behind an HTTP API.
type Server struct {
	cfg       config.ServerConfig
	engineCfg config.EngineConfig
	store     *data.Store
	metrics   *metrics.Collector
	log       zerolog.Logger
	httpSrv   *http.Server
}

// New creates a Server. The store may be nil, in which case warnings are
// not persisted and the audit endpoint reports unavailable.
func New(cfg *config.Config, store *data.Store, collector *metrics.Collector, log zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg.Server,
		engineCfg: cfg.Engine,
		store:     store,
		metrics:   collector,
		log:       log,
	}

	s.httpSrv = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	return s
}

// Routes builds the HTTP mux for the API.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/v1/validate", s.handleValidate)
	mux.HandleFunc("POST /api/v1/optimize", s.handleOptimize)
	mux.HandleFunc("POST /api/v1/rolecheck", s.handleRoleCheck)
	mux.HandleFunc("GET /api/v1/audit", s.handleAudit)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)

	return mux
}

// Start begins serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.httpSrv.Shutdown(ctx)
}
