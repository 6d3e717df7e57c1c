package log

import (
	"path/filepath"
	"testing"

	"github.com/venturelinkhq/venturelink/pkg/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		_, f, err := NewLogger(config.DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if f != nil {
			t.Error("no log path configured, but got a file")
		}
	})

	t.Run("empty config", func(t *testing.T) {
		if _, _, err := NewLogger(&config.Config{}); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("log file", func(t *testing.T) {
		cfg := &config.Config{
			Log: config.LogConfig{Path: filepath.Join(t.TempDir(), "vlink.log")},
		}
		_, f, err := NewLogger(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if f == nil {
			t.Fatal("expected an open log file")
		}
		f.Close()
	})

	t.Run("nil config", func(t *testing.T) {
		if _, _, err := NewLogger(nil); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("unopenable path", func(t *testing.T) {
		cfg := &config.Config{Log: config.LogConfig{Path: "\x00"}}
		if _, _, err := NewLogger(cfg); err == nil {
			t.Fatal("expected an error")
		}
	})
}
