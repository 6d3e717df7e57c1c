package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venturelinkhq/venturelink/pkg/access"
	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/store"
	"github.com/venturelinkhq/venturelink/pkg/store/database"
)

// InitBackendContext opens the database and wires the store and backend into
// the command context. When VENTURELINK_TOKEN is set, the token is resolved
// to its user so subcommands run authenticated.
func InitBackendContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	if err := os.MkdirAll(cfg.DataPath, os.ModePerm); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	ctx = db.WithContext(ctx, dbx)

	dbstore := database.New()
	ctx = store.WithContext(ctx, dbstore)

	be := backend.New(ctx, cfg, dbx, dbstore)
	ctx = backend.WithContext(ctx, be)

	if token := os.Getenv("VENTURELINK_TOKEN"); token != "" {
		if user, err := be.UserByAccessToken(ctx, token); err == nil && user != nil {
			ctx = proto.WithUserContext(ctx, user)
		}
	}

	cmd.SetContext(ctx)
	return nil
}

// CloseDBContext closes the database opened by InitBackendContext.
func CloseDBContext(cmd *cobra.Command, _ []string) error {
	if dbx := db.FromContext(cmd.Context()); dbx != nil {
		if err := dbx.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}

// ResolveUser returns the user a command acts as. A non-empty handle is
// looked up directly and overrides the context user; a token-authenticated
// caller may name another user only with admin access. With no handle and no
// user in context it returns proto.ErrUserNotFound.
func ResolveUser(cmd *cobra.Command, handle string) (proto.User, error) {
	ctx := cmd.Context()
	actor := proto.UserFromContext(ctx)
	if handle == "" {
		if actor != nil {
			return actor, nil
		}
		return nil, proto.ErrUserNotFound
	}

	be := backend.FromContext(ctx)
	target, err := be.User(ctx, handle)
	if err != nil {
		return nil, err
	}

	if actor != nil && be.AccessLevelForUser(actor, target) < access.ReadWriteAccess {
		return nil, proto.ErrUnauthorized
	}

	return target, nil
}
