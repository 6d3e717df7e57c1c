package proto

import "time"

// Affiliation represents one company and role entry in an investor's roster.
type Affiliation struct {
	// ID is the opaque server-assigned identifier.
	ID string `json:"id"`
	// CompanyName is the company's name.
	CompanyName string `json:"company_name"`
	// Title is the investor's role at the company.
	Title string `json:"title"`
	// WebsiteURL is the company's website. Optional.
	WebsiteURL string `json:"website_url,omitempty"`
	// DateAdded is the server-assigned creation time.
	DateAdded time.Time `json:"date_added"`
	// UpdatedAt is the time of the last modification.
	UpdatedAt time.Time `json:"updated_at"`
}

// AffiliationChange holds the three editable fields of an affiliation.
// Updates replace all three.
type AffiliationChange struct {
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
	WebsiteURL  string `json:"website_url"`
}
