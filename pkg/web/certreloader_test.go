package web

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// writeKeyPair writes a self-signed certificate and its key in PEM form.
func writeKeyPair(t *testing.T, certPath, keyPath, cn string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, pub, priv)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatal(err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCertReloaderMissingPair(t *testing.T) {
	dir := t.TempDir()
	_, err := NewCertReloader(
		filepath.Join(dir, "missing.pem"),
		filepath.Join(dir, "missing_key.pem"),
		log.New(os.Stderr),
	)
	if err == nil {
		t.Fatal("expected an error for a missing key pair")
	}
}

func TestCertReloaderManualReload(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	writeKeyPair(t, certPath, keyPath, "alpha")

	cr, err := NewCertReloader(certPath, keyPath, log.New(os.Stderr))
	if err != nil {
		t.Fatal(err)
	}
	getCert := cr.GetCertificateFunc()

	before, err := getCert(nil)
	if err != nil {
		t.Fatal(err)
	}

	writeKeyPair(t, certPath, keyPath, "beta")
	if err := cr.Reload(); err != nil {
		t.Fatal(err)
	}

	after, err := getCert(nil)
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Fatal("certificate did not change after reload")
	}
	leaf, err := x509.ParseCertificate(after.Certificate[0])
	if err != nil {
		t.Fatal(err)
	}
	if leaf.Subject.CommonName != "beta" {
		t.Fatalf("expected the new certificate, got CN %q", leaf.Subject.CommonName)
	}
}

func TestCertReloaderKeepsCertOnBadReload(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	writeKeyPair(t, certPath, keyPath, "alpha")

	cr, err := NewCertReloader(certPath, keyPath, log.New(os.Stderr))
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(keyPath); err != nil {
		t.Fatal(err)
	}
	if err := cr.Reload(); err == nil {
		t.Fatal("expected reload to fail without a key")
	}

	cert, err := cr.GetCertificateFunc()(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cert == nil {
		t.Fatal("previous certificate was dropped")
	}
}
