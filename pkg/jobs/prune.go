package jobs

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/store"
)

func init() {
	Register("prune-webhook-deliveries", pruneDeliveries{})
	Register("prune-access-tokens", pruneTokens{})
}

// pruneDeliveries deletes webhook delivery records older than the
// configured retention.
type pruneDeliveries struct{}

var _ Runner = pruneDeliveries{}

// Spec implements Runner.
func (pruneDeliveries) Spec(ctx context.Context) string {
	return config.FromContext(ctx).Jobs.PruneDeliveries
}

// Func implements Runner.
func (pruneDeliveries) Func(ctx context.Context) func() {
	cfg := config.FromContext(ctx)
	dbx := db.FromContext(ctx)
	datastore := store.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("jobs.prune-deliveries")
	return func() {
		retention := time.Duration(cfg.Webhook.DeliveryRetention) * 24 * time.Hour
		before := time.Now().Add(-retention)

		var n int64
		if err := dbx.TransactionContext(ctx, func(tx *db.Tx) error {
			var err error
			n, err = datastore.DeleteWebhookDeliveriesBefore(ctx, tx, before)
			return err
		}); err != nil {
			logger.Error("error pruning webhook deliveries", "err", err)
			return
		}

		if n > 0 {
			logger.Info("pruned webhook deliveries", "count", n)
		}
	}
}

// pruneTokens deletes access tokens past their expiry.
type pruneTokens struct{}

var _ Runner = pruneTokens{}

// Spec implements Runner.
func (pruneTokens) Spec(ctx context.Context) string {
	return config.FromContext(ctx).Jobs.PruneTokens
}

// Func implements Runner.
func (pruneTokens) Func(ctx context.Context) func() {
	dbx := db.FromContext(ctx)
	datastore := store.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("jobs.prune-tokens")
	return func() {
		var n int64
		if err := dbx.TransactionContext(ctx, func(tx *db.Tx) error {
			var err error
			n, err = datastore.DeleteExpiredAccessTokens(ctx, tx, time.Now())
			return err
		}); err != nil {
			logger.Error("error pruning access tokens", "err", err)
			return
		}

		if n > 0 {
			logger.Info("pruned expired access tokens", "count", n)
		}
	}
}
