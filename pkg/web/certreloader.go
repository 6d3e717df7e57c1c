package web

import (
	"crypto/tls"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// CertReloader serves the TLS key pair for the HTTP listener and can swap it
// for a fresh copy without restarting the server. On unix platforms a SIGHUP
// triggers a reload; elsewhere Reload must be called directly.
type CertReloader struct {
	certPath string
	keyPath  string
	logger   *log.Logger
	current  atomic.Pointer[tls.Certificate]
}

// NewCertReloader loads the key pair at the given paths and starts the
// platform signal watcher.
func NewCertReloader(certPath, keyPath string, logger *log.Logger) (*CertReloader, error) {
	cr := &CertReloader{
		certPath: certPath,
		keyPath:  keyPath,
		logger:   logger,
	}
	if err := cr.Reload(); err != nil {
		return nil, err
	}
	cr.watchSignals()
	return cr, nil
}

// Reload re-reads the key pair from disk. The certificate already in service
// stays active when the new pair fails to load.
func (cr *CertReloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certPath, cr.keyPath)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}
	cr.current.Store(&cert)
	return nil
}

// GetCertificateFunc returns a callback suitable for tls.Config.GetCertificate.
func (cr *CertReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		return cr.current.Load(), nil
	}
}
