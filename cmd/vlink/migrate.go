package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturelinkhq/venturelink/cmd"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/migrate"
)

var (
	migrateCmd = &cobra.Command{
		Use:                "migrate",
		Short:              "Migrate the database to the latest version",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  cmd.InitBackendContext,
		PersistentPostRunE: cmd.CloseDBContext,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			dbx := db.FromContext(ctx)
			if err := migrate.Migrate(ctx, dbx); err != nil {
				return fmt.Errorf("migration: %w", err)
			}

			return nil
		},
	}

	rollbackCmd = &cobra.Command{
		Use:                "rollback",
		Short:              "Rollback the database to the previous version",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  cmd.InitBackendContext,
		PersistentPostRunE: cmd.CloseDBContext,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			dbx := db.FromContext(ctx)
			if err := migrate.Rollback(ctx, dbx); err != nil {
				return fmt.Errorf("rollback: %w", err)
			}

			return nil
		},
	}
)

func init() {
	migrateCmd.AddCommand(rollbackCmd)
}
