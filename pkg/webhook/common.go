package webhook

import "time"

// EventPayload is a webhook event payload.
type EventPayload interface {
	// Event returns the event type.
	Event() Event
	// OwnerID returns the ID of the user whose roster changed.
	OwnerID() int64
}

// Common is a common payload.
type Common struct {
	// EventType is the event type.
	EventType Event `json:"event" url:"event"`
	// Owner is the user whose roster changed.
	Owner User `json:"owner" url:"owner"`
}

// Event returns the event type.
// Implements EventPayload.
func (c Common) Event() Event {
	return c.EventType
}

// OwnerID returns the roster owner's ID.
// Implements EventPayload.
func (c Common) OwnerID() int64 {
	return c.Owner.ID
}

// User represents a user in an event.
type User struct {
	// ID is the user ID.
	ID int64 `json:"id" url:"id"`
	// Handle is the user handle.
	Handle string `json:"handle" url:"handle"`
}

// Affiliation represents an affiliation in an event.
type Affiliation struct {
	// ID is the affiliation ID.
	ID string `json:"id" url:"id"`
	// CompanyName is the company name.
	CompanyName string `json:"company_name" url:"company_name"`
	// Title is the owner's role at the company.
	Title string `json:"title" url:"title"`
	// WebsiteURL is the company website.
	WebsiteURL string `json:"website_url" url:"website_url"`
	// DateAdded is the entry creation time.
	DateAdded time.Time `json:"date_added" url:"date_added"`
	// UpdatedAt is the entry last update time.
	UpdatedAt time.Time `json:"updated_at" url:"updated_at"`
}
