// Package stats exposes Prometheus metrics on a dedicated listener.
package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/venturelinkhq/venturelink/pkg/config"
)

// StatsServer serves the Prometheus metrics endpoint. It listens on its own
// address so metrics never mix with API traffic.
type StatsServer struct { //nolint:revive
	server *http.Server
}

// NewStatsServer builds the metrics server on cfg.Stats.ListenAddr.
func NewStatsServer(ctx context.Context) (*StatsServer, error) {
	cfg := config.FromContext(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &StatsServer{
		server: &http.Server{
			Addr:              cfg.Stats.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
		},
	}, nil
}

// ListenAndServe serves metrics until Shutdown or Close.
func (s *StatsServer) ListenAndServe() error {
	return s.server.ListenAndServe() //nolint:wrapcheck
}

// Shutdown drains in-flight scrapes before stopping.
func (s *StatsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx) //nolint:wrapcheck
}

// Close stops the server immediately.
func (s *StatsServer) Close() error {
	return s.server.Close() //nolint:wrapcheck
}
