package database

import (
	"database/sql"

	"github.com/venturelinkhq/venturelink/pkg/store"
)

// datastore bundles the per-table stores into one store.Store. The stores
// are stateless; every method receives its db.Handler from the caller, so
// the same store works inside and outside transactions.
type datastore struct {
	*userStore
	*affiliationStore
	*accessTokenStore
	*webhookStore
}

// New returns a store.Store backed by the relational schema in pkg/db/migrate.
func New() store.Store {
	return &datastore{
		userStore:        &userStore{},
		affiliationStore: &affiliationStore{},
		accessTokenStore: &accessTokenStore{},
		webhookStore:     &webhookStore{},
	}
}

// sqlNullString treats the empty string as NULL.
func sqlNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
