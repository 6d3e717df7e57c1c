// Package test provides database helpers shared by package tests.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/venturelinkhq/venturelink/pkg/db"
)

// pragmas matches the production SQLite defaults.
const pragmas = "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// OpenSqlite opens a throwaway SQLite database that closes itself when the
// test finishes. A nil ctx falls back to context.TODO().
func OpenSqlite(ctx context.Context, tb testing.TB) (*db.DB, error) {
	if ctx == nil {
		ctx = context.TODO()
	}

	path := filepath.Join(tb.TempDir(), "test.db")
	dbx, err := db.Open(ctx, "sqlite", path+pragmas)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	tb.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			tb.Error(err)
		}
	})
	return dbx, nil
}
