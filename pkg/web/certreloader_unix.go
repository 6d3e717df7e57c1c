//go:build unix

package web

import (
	"os"
	"os/signal"
	"syscall"
)

func (cr *CertReloader) watchSignals() {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			cr.logger.Info("reloading TLS certificate", "cert", cr.certPath, "key", cr.keyPath)
			if err := cr.Reload(); err != nil {
				cr.logger.Error("keeping previous TLS certificate", "err", err)
			}
		}
	}()
}
