//go:build !unix

package web

// SIGHUP is unavailable on this platform. Certificate rotation happens only
// through explicit Reload calls.
func (cr *CertReloader) watchSignals() {}
