//go:build unix

package web

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestCertReloaderSIGHUP(t *testing.T) {
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
	if err := syscall.Kill(os.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatal(err)
	}

	// The reload happens on a separate goroutine.
	deadline := time.Now().Add(3 * time.Second)
	for {
		after, err := getCert(nil)
		if err != nil {
			t.Fatal(err)
		}
		if after != before {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("certificate still stale after SIGHUP")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
