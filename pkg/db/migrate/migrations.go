package migrate

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/venturelinkhq/venturelink/pkg/db"
)

//go:embed *.sql
var scripts embed.FS

// Ordered oldest to newest. Append only, never reorder.
var migrations = []Migration{
	createTables,
	createWebhooks,
}

// runScript executes the embedded SQL file for a migration step. Script files
// follow the pattern NNNN_name_driver.direction.sql.
func runScript(ctx context.Context, tx *db.Tx, version int64, name, direction string) error {
	driver := tx.DriverName()
	if driver == driverSQLite3 {
		driver = driverSQLite
	}

	fn := fmt.Sprintf("%04d_%s_%s.%s.sql", version, scriptName(name), driver, direction)
	stmts, err := scripts.ReadFile(fn)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, string(stmts))
	return err
}

func migrateUp(ctx context.Context, tx *db.Tx, version int64, name string) error {
	return runScript(ctx, tx, version, name, "up")
}

func migrateDown(ctx context.Context, tx *db.Tx, version int64, name string) error {
	return runScript(ctx, tx, version, name, "down")
}

var scriptNameReplacer = strings.NewReplacer(" ", "_", "-", "_")

func scriptName(name string) string {
	return strings.ToLower(scriptNameReplacer.Replace(name))
}
