package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
)

// logQuery logs the statement and its arguments at debug level. Statements
// are collapsed to a single line.
func logQuery(l *log.Logger, query string, args ...any) {
	if l == nil {
		return
	}
	l.Debug("trace", "query", strings.Join(strings.Fields(query), " "), "args", args)
}

// The methods below shadow their sqlx counterparts to trace every statement
// that goes through a DB or Tx.

func (d *DB) Get(dest any, query string, args ...any) error {
	logQuery(d.logger, query, args...)
	return d.DB.Get(dest, query, args...)
}

func (d *DB) Select(dest any, query string, args ...any) error {
	logQuery(d.logger, query, args...)
	return d.DB.Select(dest, query, args...)
}

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	logQuery(d.logger, query, args...)
	return d.DB.Exec(query, args...)
}

func (d *DB) Queryx(query string, args ...any) (*sqlx.Rows, error) {
	logQuery(d.logger, query, args...)
	return d.DB.Queryx(query, args...)
}

func (d *DB) QueryRowx(query string, args ...any) *sqlx.Row {
	logQuery(d.logger, query, args...)
	return d.DB.QueryRowx(query, args...)
}

func (d *DB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	logQuery(d.logger, query, args...)
	return d.DB.GetContext(ctx, dest, query, args...)
}

func (d *DB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	logQuery(d.logger, query, args...)
	return d.DB.SelectContext(ctx, dest, query, args...)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	logQuery(d.logger, query, args...)
	return d.DB.ExecContext(ctx, query, args...)
}

func (d *DB) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	logQuery(d.logger, query, args...)
	return d.DB.QueryxContext(ctx, query, args...)
}

func (d *DB) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	logQuery(d.logger, query, args...)
	return d.DB.QueryRowxContext(ctx, query, args...)
}

func (t *Tx) Get(dest any, query string, args ...any) error {
	logQuery(t.logger, query, args...)
	return t.Tx.Get(dest, query, args...)
}

func (t *Tx) Select(dest any, query string, args ...any) error {
	logQuery(t.logger, query, args...)
	return t.Tx.Select(dest, query, args...)
}

func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	logQuery(t.logger, query, args...)
	return t.Tx.Exec(query, args...)
}

func (t *Tx) Queryx(query string, args ...any) (*sqlx.Rows, error) {
	logQuery(t.logger, query, args...)
	return t.Tx.Queryx(query, args...)
}

func (t *Tx) QueryRowx(query string, args ...any) *sqlx.Row {
	logQuery(t.logger, query, args...)
	return t.Tx.QueryRowx(query, args...)
}

func (t *Tx) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	logQuery(t.logger, query, args...)
	return t.Tx.GetContext(ctx, dest, query, args...)
}

func (t *Tx) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	logQuery(t.logger, query, args...)
	return t.Tx.SelectContext(ctx, dest, query, args...)
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	logQuery(t.logger, query, args...)
	return t.Tx.ExecContext(ctx, query, args...)
}

func (t *Tx) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	logQuery(t.logger, query, args...)
	return t.Tx.QueryxContext(ctx, query, args...)
}

func (t *Tx) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	logQuery(t.logger, query, args...)
	return t.Tx.QueryRowxContext(ctx, query, args...)
}
