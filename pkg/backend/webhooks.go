package backend

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/webhook"
)

// toHook assembles a webhook from its row and event rows.
func toHook(m models.Webhook, events []models.WebhookEvent) webhook.Hook {
	h := webhook.Hook{
		Webhook:     m,
		ContentType: webhook.ContentType(m.ContentType),
		Events:      make([]webhook.Event, len(events)),
	}
	for i, e := range events {
		h.Events[i] = webhook.Event(e.Event)
	}
	return h
}

// toDelivery pairs a delivery row with its typed event.
func toDelivery(m models.WebhookDelivery) webhook.Delivery {
	return webhook.Delivery{
		WebhookDelivery: m,
		Event:           webhook.Event(m.Event),
	}
}

// CreateWebhook registers a webhook for user. The destination URL is
// validated before anything is written.
func (b *Backend) CreateWebhook(ctx context.Context, user proto.User, url string, contentType webhook.ContentType, secret string, events []webhook.Event, active bool) error {
	if err := webhook.ValidateWebhookURL(url); err != nil {
		return err
	}

	return b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		id, err := b.store.CreateWebhook(ctx, tx, user.ID(), url, secret, int(contentType), active)
		if err != nil {
			return db.WrapError(err)
		}

		evs := make([]int, len(events))
		for i, e := range events {
			evs[i] = int(e)
		}

		return db.WrapError(b.store.CreateWebhookEvents(ctx, tx, id, evs))
	})
}

// Webhook returns one of user's webhooks along with its subscribed events.
func (b *Backend) Webhook(ctx context.Context, user proto.User, id int64) (webhook.Hook, error) {
	var hook webhook.Hook
	err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		m, err := b.store.GetWebhookByID(ctx, tx, user.ID(), id)
		if err != nil {
			return db.WrapError(err)
		}

		events, err := b.store.GetWebhookEventsByWebhookID(ctx, tx, id)
		if err != nil {
			return db.WrapError(err)
		}

		hook = toHook(m, events)
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return webhook.Hook{}, proto.ErrWebhookNotFound
		}
		return webhook.Hook{}, err
	}

	return hook, nil
}

// ListWebhooks returns all of user's webhooks with their subscribed events.
func (b *Backend) ListWebhooks(ctx context.Context, user proto.User) ([]webhook.Hook, error) {
	var hooks []webhook.Hook
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		ms, err := b.store.GetWebhooksByUserID(ctx, tx, user.ID())
		if err != nil {
			return err
		}

		hooks = make([]webhook.Hook, 0, len(ms))
		for _, m := range ms {
			events, err := b.store.GetWebhookEventsByWebhookID(ctx, tx, m.ID)
			if err != nil {
				return err
			}
			hooks = append(hooks, toHook(m, events))
		}

		return nil
	}); err != nil {
		return nil, db.WrapError(err)
	}

	return hooks, nil
}

// UpdateWebhook replaces a webhook's settings and reconciles its event
// subscriptions to exactly updatedEvents.
func (b *Backend) UpdateWebhook(ctx context.Context, user proto.User, id int64, url string, contentType webhook.ContentType, secret string, updatedEvents []webhook.Event, active bool) error {
	if err := webhook.ValidateWebhookURL(url); err != nil {
		return err
	}

	err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := b.store.UpdateWebhookByID(ctx, tx, user.ID(), id, url, secret, int(contentType), active); err != nil {
			return db.WrapError(err)
		}

		current, err := b.store.GetWebhookEventsByWebhookID(ctx, tx, id)
		if err != nil {
			return db.WrapError(err)
		}

		want := make(map[int]bool, len(updatedEvents))
		for _, e := range updatedEvents {
			want[int(e)] = true
		}

		have := make(map[int]bool, len(current))
		stale := []int64{}
		for _, e := range current {
			have[e.Event] = true
			if !want[e.Event] {
				stale = append(stale, e.ID)
			}
		}
		if err := b.store.DeleteWebhookEventsByID(ctx, tx, stale); err != nil {
			return db.WrapError(err)
		}

		missing := []int{}
		for _, e := range updatedEvents {
			if !have[int(e)] {
				have[int(e)] = true
				missing = append(missing, int(e))
			}
		}

		return db.WrapError(b.store.CreateWebhookEvents(ctx, tx, id, missing))
	})
	if errors.Is(err, db.ErrRecordNotFound) {
		return proto.ErrWebhookNotFound
	}

	return err
}

// DeleteWebhook removes one of user's webhooks. Deliveries and event
// subscriptions go with it through foreign key cascades.
func (b *Backend) DeleteWebhook(ctx context.Context, user proto.User, id int64) error {
	err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return db.WrapError(b.store.DeleteWebhookForUserByID(ctx, tx, user.ID(), id))
	})
	if errors.Is(err, db.ErrRecordNotFound) {
		return proto.ErrWebhookNotFound
	}

	return err
}

// ListWebhookDeliveries returns the delivery log for a webhook, newest
// first. Entries carry only summary columns; use WebhookDelivery for the
// full request and response capture.
func (b *Backend) ListWebhookDeliveries(ctx context.Context, id int64) ([]webhook.Delivery, error) {
	ms, err := b.store.ListWebhookDeliveriesByWebhookID(ctx, b.db, id)
	if err != nil {
		return nil, db.WrapError(err)
	}

	ds := make([]webhook.Delivery, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, toDelivery(m))
	}

	return ds, nil
}

// WebhookDelivery returns one delivery with its full request and response
// capture.
func (b *Backend) WebhookDelivery(ctx context.Context, webhookID int64, id uuid.UUID) (webhook.Delivery, error) {
	m, err := b.store.GetWebhookDeliveryByID(ctx, b.db, webhookID, id)
	if err != nil {
		if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return webhook.Delivery{}, proto.ErrWebhookNotFound
		}
		return webhook.Delivery{}, db.WrapError(err)
	}

	return toDelivery(m), nil
}
