package migrate

import (
	"context"
	"testing"

	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db/internal/test"
)

func TestMigrate(t *testing.T) {
	// XXX: we need a config.Config in the context for the migrations to run
	// properly. The create-tables migration seeds admin users from the config.
	ctx := config.WithContext(context.TODO(), config.DefaultConfig())
	dbx, err := test.OpenSqlite(ctx, t)
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(ctx, dbx); err != nil {
		t.Errorf("Migrate() => %v, want nil error", err)
	}

	// Running it twice is a no-op.
	if err := Migrate(ctx, dbx); err != nil {
		t.Errorf("second Migrate() => %v, want nil error", err)
	}
}

func TestRollbackNoMigrations(t *testing.T) {
	ctx := config.WithContext(context.TODO(), config.DefaultConfig())
	dbx, err := test.OpenSqlite(ctx, t)
	if err != nil {
		t.Fatal(err)
	}
	if err := Rollback(ctx, dbx); err == nil {
		t.Error("Rollback() => nil, want error")
	}
}

func TestScriptName(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"create tables", "create_tables"},
		{"create webhooks", "create_webhooks"},
		{"Create-Tables", "create_tables"},
	}
	for _, c := range cases {
		if got := scriptName(c.in); got != c.out {
			t.Errorf("scriptName(%q) => %q, want %q", c.in, got, c.out)
		}
	}
}
