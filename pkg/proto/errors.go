package proto

import (
	"errors"
)

var (
	// ErrUnauthorized is returned when the user is not authorized to perform action.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAuthenticated is returned when no identity is resolvable.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrIdentityMismatch is returned when the resolved identity differs from
	// the roster's recorded owner. Expected during account switching.
	ErrIdentityMismatch = errors.New("identity mismatch")
	// ErrAffiliationNotFound is returned when an affiliation is not found.
	ErrAffiliationNotFound = errors.New("affiliation not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExist is returned when a user already exists.
	ErrUserExist = errors.New("user already exists")
	// ErrTokenNotFound is returned when a token is not found.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenExpired is returned when a token is expired.
	ErrTokenExpired = errors.New("token expired")
	// ErrWebhookNotFound is returned when a webhook is not found.
	ErrWebhookNotFound = errors.New("webhook not found")
	// ErrTimeout is returned when a remote call exceeds its deadline.
	ErrTimeout = errors.New("operation timed out")
)
