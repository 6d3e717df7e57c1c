package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/venturelinkhq/venturelink/pkg/db"
)

const (
	driverSQLite   = "sqlite"
	driverSQLite3  = "sqlite3"
	driverPostgres = "postgres"
)

// MigrateFunc executes one migration step inside a transaction.
type MigrateFunc func(ctx context.Context, tx *db.Tx) error //nolint:revive

// Migration describes a schema version and how to enter and leave it.
type Migration struct {
	Version  int64
	Name     string
	Migrate  MigrateFunc
	Rollback MigrateFunc
}

// migrationRow mirrors one row of the migrations ledger.
type migrationRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Version int64  `db:"version"`
}

// Migrate applies every migration newer than the recorded schema version. The
// whole batch runs in one transaction, so a failing migration leaves the
// database untouched.
func Migrate(ctx context.Context, dbx *db.DB) error {
	logger := log.FromContext(ctx).WithPrefix("migrate")
	return dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := ensureLedger(tx); err != nil {
			return err
		}

		current, err := currentVersion(tx)
		if err != nil {
			return err
		}

		for _, m := range migrations {
			if m.Version <= current {
				continue
			}

			logger.Infof("applying migration %d: %s", m.Version, m.Name)
			if err := m.Migrate(ctx, tx); err != nil {
				return err
			}
			if _, err := tx.Exec(tx.Rebind("INSERT INTO migrations (version, name) VALUES (?, ?)"), m.Version, m.Name); err != nil {
				return err
			}
		}

		return nil
	})
}

// Rollback undoes the most recently applied migration.
func Rollback(ctx context.Context, dbx *db.DB) error {
	logger := log.FromContext(ctx).WithPrefix("migrate")
	return dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		current, err := currentVersion(tx)
		if err != nil {
			return err
		}
		if current == 0 || int(current) > len(migrations) {
			return fmt.Errorf("no migration to roll back")
		}

		m := migrations[current-1]
		logger.Infof("rolling back migration %d: %s", m.Version, m.Name)
		if err := m.Rollback(ctx, tx); err != nil {
			return err
		}

		_, err = tx.Exec(tx.Rebind("DELETE FROM migrations WHERE version = ?"), current)
		return err
	})
}

// ensureLedger creates the migrations table on first run.
func ensureLedger(tx *db.Tx) error {
	var ddl string
	switch tx.DriverName() {
	case driverSQLite, driverSQLite3:
		ddl = `CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			version INTEGER NOT NULL UNIQUE
		);`
	case driverPostgres:
		ddl = `CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			version INTEGER NOT NULL UNIQUE
		);`
	default:
		return fmt.Errorf("unsupported driver %q", tx.DriverName())
	}
	_, err := tx.Exec(ddl)
	return err
}

// currentVersion reads the newest recorded schema version, zero when the
// ledger is empty.
func currentVersion(tx *db.Tx) (int64, error) {
	var row migrationRow
	err := tx.Get(&row, tx.Rebind("SELECT * FROM migrations ORDER BY version DESC LIMIT 1"))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return row.Version, nil
}
