package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Webhook is an HTTP callback subscription owned by a user. Secret signs
// delivery payloads; ContentType holds the integer form of
// webhook.ContentType.
type Webhook struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	URL         string    `db:"url"`
	Secret      string    `db:"secret"`
	ContentType int       `db:"content_type"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// WebhookEvent subscribes a webhook to one event kind.
type WebhookEvent struct {
	ID        int64     `db:"id"`
	WebhookID int64     `db:"webhook_id"`
	Event     int       `db:"event"`
	CreatedAt time.Time `db:"created_at"`
}

// WebhookDelivery records one delivery attempt, request and response both,
// for debugging endpoint failures.
type WebhookDelivery struct {
	ID        uuid.UUID `db:"id"`
	WebhookID int64     `db:"webhook_id"`
	Event     int       `db:"event"`

	RequestURL     string         `db:"request_url"`
	RequestMethod  string         `db:"request_method"`
	RequestError   sql.NullString `db:"request_error"`
	RequestHeaders string         `db:"request_headers"`
	RequestBody    string         `db:"request_body"`

	ResponseStatus  int    `db:"response_status"`
	ResponseHeaders string `db:"response_headers"`
	ResponseBody    string `db:"response_body"`

	CreatedAt time.Time `db:"created_at"`
}
