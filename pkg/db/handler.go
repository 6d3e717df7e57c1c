package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Handler is the query surface shared by DB and Tx, so store code works the
// same inside and outside transactions.
type Handler interface {
	Rebind(string) string

	Get(any, string, ...any) error
	Select(any, string, ...any) error
	Exec(string, ...any) (sql.Result, error)
	Queryx(string, ...any) (*sqlx.Rows, error)
	QueryRowx(string, ...any) *sqlx.Row

	GetContext(context.Context, any, string, ...any) error
	SelectContext(context.Context, any, string, ...any) error
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryxContext(context.Context, string, ...any) (*sqlx.Rows, error)
	QueryRowxContext(context.Context, string, ...any) *sqlx.Row
}

var (
	_ Handler = (*DB)(nil)
	_ Handler = (*Tx)(nil)
)
