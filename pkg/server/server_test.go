package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/migrate"
	"github.com/venturelinkhq/venturelink/pkg/store"
	"github.com/venturelinkhq/venturelink/pkg/store/database"
	"github.com/venturelinkhq/venturelink/pkg/test"
)

func setupTestContext(t *testing.T, cfg *config.Config) context.Context {
	t.Helper()
	cfg.DataPath = t.TempDir()
	cfg.JWT.KeyPath = filepath.Join(cfg.DataPath, "jwt", "test_ed25519")
	ctx := config.WithContext(context.TODO(), cfg)
	ctx = log.WithContext(ctx, log.Default())

	dbpath := filepath.Join(t.TempDir(), "test.db")
	dbx, err := db.Open(ctx, "sqlite", dbpath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			t.Error(err)
		}
	})

	if err := migrate.Migrate(ctx, dbx); err != nil {
		t.Fatal(err)
	}

	ctx = db.WithContext(ctx, dbx)
	datastore := database.New()
	ctx = store.WithContext(ctx, datastore)
	be := backend.New(ctx, cfg, dbx, datastore)
	ctx = backend.WithContext(ctx, be)

	return ctx
}

func waitForOK(t *testing.T, url string) {
	t.Helper()
	for i := 0; i < 50; i++ {
		res, err := http.Get(url) //nolint:gosec
		if err == nil {
			res.Body.Close() //nolint:errcheck
			if res.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s never became ready", url)
}

func TestServerStartShutdown(t *testing.T) {
	cfg := config.DefaultConfig()
	httpPort := test.RandomPort()
	statsPort := test.RandomPort()
	cfg.HTTP.ListenAddr = fmt.Sprintf("localhost:%d", httpPort)
	cfg.Stats.ListenAddr = fmt.Sprintf("localhost:%d", statsPort)
	ctx := setupTestContext(t, cfg)

	s, err := NewServer(ctx)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	waitForOK(t, fmt.Sprintf("http://localhost:%d/healthz", httpPort))
	waitForOK(t, fmt.Sprintf("http://localhost:%d/metrics", statsPort))

	sctx, cancel := context.WithTimeout(context.TODO(), 3*time.Second)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerDisabledComponents(t *testing.T) {
	cfg := config.DefaultConfig()
	httpPort := test.RandomPort()
	cfg.HTTP.Enabled = false
	cfg.HTTP.ListenAddr = fmt.Sprintf("localhost:%d", httpPort)
	cfg.Stats.Enabled = false
	cfg.Jobs.Enabled = false
	ctx := setupTestContext(t, cfg)

	s, err := NewServer(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// With every component disabled Start has nothing to wait on.
	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("start did not return")
	}

	if conn, err := net.DialTimeout("tcp", cfg.HTTP.ListenAddr, 100*time.Millisecond); err == nil {
		conn.Close() //nolint:errcheck
		t.Error("http server listening while disabled")
	}
}
