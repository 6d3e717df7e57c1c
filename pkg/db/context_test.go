package db_test

import (
	"context"
	"testing"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/internal/test"
)

func TestFromContext(t *testing.T) {
	if got := db.FromContext(context.TODO()); got != nil {
		t.Errorf("empty context carries a db: %v", got)
	}

	dbx, err := test.OpenSqlite(context.TODO(), t)
	if err != nil {
		t.Fatal(err)
	}
	ctx := db.WithContext(context.TODO(), dbx)
	if got := db.FromContext(ctx); got != dbx {
		t.Errorf("FromContext returned %v, want the stored db", got)
	}
}
