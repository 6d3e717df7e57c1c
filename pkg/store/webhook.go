package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
)

// WebhookStore is an interface for managing webhooks.
type WebhookStore interface {
	// GetWebhookByID returns a webhook owned by a user by its ID.
	GetWebhookByID(ctx context.Context, h db.Handler, userID int64, id int64) (models.Webhook, error)
	// GetWebhooksByUserID returns all webhooks owned by a user.
	GetWebhooksByUserID(ctx context.Context, h db.Handler, userID int64) ([]models.Webhook, error)
	// GetWebhooksByUserIDWhereEvent returns all webhooks owned by a user where event is in the events.
	GetWebhooksByUserIDWhereEvent(ctx context.Context, h db.Handler, userID int64, events []int) ([]models.Webhook, error)
	// CreateWebhook creates a webhook.
	CreateWebhook(ctx context.Context, h db.Handler, userID int64, url string, secret string, contentType int, active bool) (int64, error)
	// UpdateWebhookByID updates a webhook by its ID. It returns
	// sql.ErrNoRows when the user owns no webhook with that id.
	UpdateWebhookByID(ctx context.Context, h db.Handler, userID int64, id int64, url string, secret string, contentType int, active bool) error
	// DeleteWebhookForUserByID deletes a webhook owned by a user by its
	// ID. It returns sql.ErrNoRows when the user owns no webhook with
	// that id.
	DeleteWebhookForUserByID(ctx context.Context, h db.Handler, userID int64, id int64) error

	// GetWebhookEventsByWebhookID returns all webhook events for a webhook.
	GetWebhookEventsByWebhookID(ctx context.Context, h db.Handler, webhookID int64) ([]models.WebhookEvent, error)
	// CreateWebhookEvents creates webhook events for a webhook.
	CreateWebhookEvents(ctx context.Context, h db.Handler, webhookID int64, events []int) error
	// DeleteWebhookEventsByID deletes webhook events by their IDs.
	DeleteWebhookEventsByID(ctx context.Context, h db.Handler, ids []int64) error

	// GetWebhookDeliveryByID returns a webhook delivery by its ID.
	GetWebhookDeliveryByID(ctx context.Context, h db.Handler, webhookID int64, id uuid.UUID) (models.WebhookDelivery, error)
	// ListWebhookDeliveriesByWebhookID returns all webhook deliveries for a webhook.
	// This only returns the delivery ID, response status, event, and creation time.
	ListWebhookDeliveriesByWebhookID(ctx context.Context, h db.Handler, webhookID int64) ([]models.WebhookDelivery, error)
	// CreateWebhookDelivery creates a webhook delivery.
	CreateWebhookDelivery(ctx context.Context, h db.Handler, id uuid.UUID, webhookID int64, event int, url string, method string, requestError error, requestHeaders string, requestBody string, responseStatus int, responseHeaders string, responseBody string) error
	// DeleteWebhookDeliveriesBefore deletes webhook deliveries created before the given time.
	DeleteWebhookDeliveriesBefore(ctx context.Context, h db.Handler, before time.Time) (int64, error)
}
