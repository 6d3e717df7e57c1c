package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/store"
)

type webhookStore struct{}

var _ store.WebhookStore = (*webhookStore)(nil)

// CreateWebhook implements store.WebhookStore.
func (*webhookStore) CreateWebhook(ctx context.Context, h db.Handler, userID int64, url string, secret string, contentType int, active bool) (int64, error) {
	var id int64
	err := h.GetContext(ctx, &id, h.Rebind(`
		INSERT INTO webhooks (user_id, url, secret, content_type, active, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		RETURNING id
	`), userID, url, secret, contentType, active)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return id, nil
}

// GetWebhookByID implements store.WebhookStore.
func (*webhookStore) GetWebhookByID(ctx context.Context, h db.Handler, userID int64, id int64) (models.Webhook, error) {
	var w models.Webhook
	err := h.GetContext(ctx, &w, h.Rebind(`
		SELECT * FROM webhooks WHERE user_id = ? AND id = ?
	`), userID, id)
	return w, err //nolint:wrapcheck
}

// GetWebhooksByUserID implements store.WebhookStore.
func (*webhookStore) GetWebhooksByUserID(ctx context.Context, h db.Handler, userID int64) ([]models.Webhook, error) {
	var ws []models.Webhook
	err := h.SelectContext(ctx, &ws, h.Rebind(`
		SELECT * FROM webhooks WHERE user_id = ? ORDER BY id
	`), userID)
	return ws, err //nolint:wrapcheck
}

// GetWebhooksByUserIDWhereEvent implements store.WebhookStore.
func (*webhookStore) GetWebhooksByUserIDWhereEvent(ctx context.Context, h db.Handler, userID int64, events []int) ([]models.Webhook, error) {
	if len(events) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT webhooks.* FROM webhooks
		INNER JOIN webhook_events ON webhooks.id = webhook_events.webhook_id
		WHERE webhooks.user_id = ? AND webhook_events.event IN (?)
	`, userID, events)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	var ws []models.Webhook
	err = h.SelectContext(ctx, &ws, h.Rebind(query), args...)
	return ws, err //nolint:wrapcheck
}

// UpdateWebhookByID implements store.WebhookStore. It returns sql.ErrNoRows
// when the user owns no webhook with that id.
func (*webhookStore) UpdateWebhookByID(ctx context.Context, h db.Handler, userID int64, id int64, url string, secret string, contentType int, active bool) error {
	r, err := h.ExecContext(ctx, h.Rebind(`
		UPDATE webhooks
		SET url = ?, secret = ?, content_type = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ?
	`), url, secret, contentType, active, userID, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	n, err := r.RowsAffected()
	if err != nil {
		return err //nolint:wrapcheck
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteWebhookForUserByID implements store.WebhookStore. It returns
// sql.ErrNoRows when the user owns no webhook with that id.
func (*webhookStore) DeleteWebhookForUserByID(ctx context.Context, h db.Handler, userID int64, id int64) error {
	r, err := h.ExecContext(ctx, h.Rebind(`
		DELETE FROM webhooks WHERE user_id = ? AND id = ?
	`), userID, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	n, err := r.RowsAffected()
	if err != nil {
		return err //nolint:wrapcheck
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GetWebhookEventsByWebhookID implements store.WebhookStore.
func (*webhookStore) GetWebhookEventsByWebhookID(ctx context.Context, h db.Handler, webhookID int64) ([]models.WebhookEvent, error) {
	var evs []models.WebhookEvent
	err := h.SelectContext(ctx, &evs, h.Rebind(`
		SELECT * FROM webhook_events WHERE webhook_id = ?
	`), webhookID)
	return evs, err //nolint:wrapcheck
}

// CreateWebhookEvents implements store.WebhookStore.
func (*webhookStore) CreateWebhookEvents(ctx context.Context, h db.Handler, webhookID int64, events []int) error {
	if len(events) == 0 {
		return nil
	}

	query := h.Rebind(`
		INSERT INTO webhook_events (webhook_id, event) VALUES (?, ?)
	`)
	for _, event := range events {
		if _, err := h.ExecContext(ctx, query, webhookID, event); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

// DeleteWebhookEventsByID implements store.WebhookStore.
func (*webhookStore) DeleteWebhookEventsByID(ctx context.Context, h db.Handler, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		DELETE FROM webhook_events WHERE id IN (?)
	`, ids)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = h.ExecContext(ctx, h.Rebind(query), args...)
	return err //nolint:wrapcheck
}

// CreateWebhookDelivery implements store.WebhookStore.
func (*webhookStore) CreateWebhookDelivery(ctx context.Context, h db.Handler, id uuid.UUID, webhookID int64, event int, url string, method string, requestError error, requestHeaders string, requestBody string, responseStatus int, responseHeaders string, responseBody string) error {
	var reqErr string
	if requestError != nil {
		reqErr = requestError.Error()
	}

	_, err := h.ExecContext(ctx, h.Rebind(`
		INSERT INTO webhook_deliveries (
			id, webhook_id, event,
			request_url, request_method, request_error, request_headers, request_body,
			response_status, response_headers, response_body
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, webhookID, event,
		url, method, sqlNullString(reqErr), requestHeaders, requestBody,
		responseStatus, responseHeaders, responseBody)
	return err //nolint:wrapcheck
}

// GetWebhookDeliveryByID implements store.WebhookStore.
func (*webhookStore) GetWebhookDeliveryByID(ctx context.Context, h db.Handler, webhookID int64, id uuid.UUID) (models.WebhookDelivery, error) {
	var d models.WebhookDelivery
	err := h.GetContext(ctx, &d, h.Rebind(`
		SELECT * FROM webhook_deliveries WHERE webhook_id = ? AND id = ?
	`), webhookID, id)
	return d, err //nolint:wrapcheck
}

// ListWebhookDeliveriesByWebhookID implements store.WebhookStore. Only the
// id, response status, event, and creation time are selected.
func (*webhookStore) ListWebhookDeliveriesByWebhookID(ctx context.Context, h db.Handler, webhookID int64) ([]models.WebhookDelivery, error) {
	var ds []models.WebhookDelivery
	err := h.SelectContext(ctx, &ds, h.Rebind(`
		SELECT id, response_status, event, created_at FROM webhook_deliveries
		WHERE webhook_id = ?
		ORDER BY created_at DESC
	`), webhookID)
	return ds, err //nolint:wrapcheck
}

// DeleteWebhookDeliveriesBefore implements store.WebhookStore.
func (*webhookStore) DeleteWebhookDeliveriesBefore(ctx context.Context, h db.Handler, before time.Time) (int64, error) {
	r, err := h.ExecContext(ctx, h.Rebind(`
		DELETE FROM webhook_deliveries WHERE created_at < ?
	`), before.UTC())
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return r.RowsAffected() //nolint:wrapcheck
}
