// Package migrate provides database migration functionality.
package migrate

import (
	"context"
	"errors"
	"strings"

	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/utils"
)

const (
	createTablesName    = "create tables"
	createTablesVersion = 1
)

var createTables = Migration{
	Version: createTablesVersion,
	Name:    createTablesName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		if err := migrateUp(ctx, tx, createTablesVersion, createTablesName); err != nil {
			return err
		}

		admins := []string{"admin"}
		if cfg := config.FromContext(ctx); cfg != nil {
			admins = append(admins, cfg.InitialAdmins...)
		}

		return seedAdmins(ctx, tx, admins)
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		return migrateDown(ctx, tx, createTablesVersion, createTablesName)
	},
}

// seedAdmins inserts the initial admin accounts on first run. Handles that
// already exist are left untouched.
func seedAdmins(ctx context.Context, tx *db.Tx, handles []string) error {
	insert := "INSERT INTO users (handle, admin, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)"
	if tx.DriverName() == driverPostgres {
		insert += " ON CONFLICT DO NOTHING"
	}
	insert = tx.Rebind(insert)

	seen := make(map[string]struct{}, len(handles))
	for _, handle := range handles {
		handle = strings.ToLower(strings.TrimSpace(handle))
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}

		if err := utils.ValidateHandle(handle); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insert, handle, true); err != nil {
			if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
				continue
			}
			return err
		}
	}

	return nil
}
