package config

import "context"

var configContextKey = &struct{ name string }{"config"}

// WithContext stores cfg in a child of ctx.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

// FromContext returns the Config stored in ctx, or nil.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configContextKey).(*Config); ok {
		return c
	}
	return nil
}
