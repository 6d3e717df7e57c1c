package web

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venturelinkhq/venturelink/pkg/config"
)

// HTTPServer serves the public API over HTTP, and over TLS when a
// certificate is configured.
type HTTPServer struct {
	Server *http.Server
}

// NewHTTPServer builds the API server on cfg.HTTP.ListenAddr.
func NewHTTPServer(ctx context.Context) (*HTTPServer, error) {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx)
	return &HTTPServer{
		Server: &http.Server{
			Addr:              cfg.HTTP.ListenAddr,
			Handler:           NewRouter(ctx),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       10 * time.Second,
			MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
			ErrorLog:          logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
		},
	}, nil
}

// SetTLSConfig switches the server to TLS. Must be called before
// ListenAndServe.
func (s *HTTPServer) SetTLSConfig(tlsConfig *tls.Config) {
	s.Server.TLSConfig = tlsConfig
}

// ListenAndServe serves until Shutdown or Close, with TLS when configured.
func (s *HTTPServer) ListenAndServe() error {
	if s.Server.TLSConfig != nil {
		return s.Server.ListenAndServeTLS("", "")
	}
	return s.Server.ListenAndServe()
}

// Shutdown drains in-flight requests before stopping.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

// Close stops the server immediately.
func (s *HTTPServer) Close() error {
	return s.Server.Close()
}
