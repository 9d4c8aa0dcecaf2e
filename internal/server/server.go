// Package server is the development backend serving categories, markets and
// coupon redemption over HTTP.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/nearby/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

// Config holds server settings.
type Config struct {
	Addr string
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit float64
	Burst     int
	// TrustProxy takes the client address from True-Client-IP, X-Real-IP
	// or the first X-Forwarded-For hop. Enable it only behind a proxy that
	// sets those headers.
	TrustProxy bool
	// TLS, when set, serves HTTPS.
	TLS *tls.Config
}

// Server wires the store to the HTTP API.
type Server struct {
	store    service.Store
	metrics  *Metrics
	registry *prometheus.Registry
	handler  http.Handler
	cfg      Config
}

// New creates a server. Each server owns its own metrics registry.
func New(store service.Store, cfg Config) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":3333"
	}
	if cfg.RateLimit > 0 && cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.RateLimit)*2)
	}

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	s := &Server{
		store:    store,
		metrics:  metrics,
		registry: registry,
		cfg:      cfg,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig:         s.cfg.TLS,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.cfg.TLS != nil {
			slog.Info("development backend listening", "addr", s.cfg.Addr, "tls", true)
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		slog.Info("development backend listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		slog.Info("shutting down development backend")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}
