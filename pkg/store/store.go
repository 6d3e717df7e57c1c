package store

// Store is an interface for managing users, affiliations, access tokens, and
// webhooks.
type Store interface {
	UserStore
	AffiliationStore
	AccessTokenStore
	WebhookStore
}
