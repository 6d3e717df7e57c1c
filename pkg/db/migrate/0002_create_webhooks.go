package migrate

import (
	"context"

	"github.com/venturelinkhq/venturelink/pkg/db"
)

const (
	createWebhooksName    = "create webhooks"
	createWebhooksVersion = 2
)

var createWebhooks = Migration{
	Version: createWebhooksVersion,
	Name:    createWebhooksName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		return migrateUp(ctx, tx, createWebhooksVersion, createWebhooksName)
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		return migrateDown(ctx, tx, createWebhooksVersion, createWebhooksName)
	},
}
