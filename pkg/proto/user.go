package proto

// User is an interface representing an authenticated user.
type User interface {
	// ID returns the user's ID.
	ID() int64
	// Handle returns the user's unique handle.
	Handle() string
	// DisplayName returns the user's display name.
	DisplayName() string
	// IsAdmin returns whether the user is an admin.
	IsAdmin() bool
	// Password returns the user's password hash.
	Password() string
}

// UserOptions are options for creating a user.
type UserOptions struct {
	// DisplayName is the user's display name.
	DisplayName string
	// Admin is whether the user is an admin.
	Admin bool
	// Password is the user's plaintext password. Empty means no password
	// login; the user can still authenticate with access tokens.
	Password string
}
