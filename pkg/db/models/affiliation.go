package models

import (
	"database/sql"
	"time"
)

// Affiliation represents a company affiliation entry in a user's roster.
// Seq is a monotonic insertion counter used to keep newest-first ordering
// stable when two rows share a created_at timestamp.
type Affiliation struct {
	Seq         int64          `db:"seq"`
	ID          string         `db:"id"`
	UserID      int64          `db:"user_id"`
	CompanyName string         `db:"company_name"`
	Title       string         `db:"title"`
	WebsiteURL  sql.NullString `db:"website_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
