// Package db manages the database handle, transactions, and query tracing
// for VentureLink.
package db

import "context"

var dbContextKey = &struct{ name string }{"db"}

// FromContext returns the DB stored in ctx, or nil.
func FromContext(ctx context.Context) *DB {
	if db, ok := ctx.Value(dbContextKey).(*DB); ok {
		return db
	}
	return nil
}

// WithContext stores the DB in a child of ctx.
func WithContext(ctx context.Context, db *DB) context.Context {
	return context.WithValue(ctx, dbContextKey, db)
}
