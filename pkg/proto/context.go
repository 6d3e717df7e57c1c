package proto

import "context"

var userContextKey = &struct{ name string }{"user"}

// UserFromContext returns the authenticated user stored in ctx, or nil.
func UserFromContext(ctx context.Context) User {
	if u, ok := ctx.Value(userContextKey).(User); ok {
		return u
	}
	return nil
}

// WithUserContext stores the authenticated user in a child of ctx.
func WithUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}
