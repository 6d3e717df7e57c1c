package config

import (
	"errors"

	"github.com/charmbracelet/keygen"
)

var (
	// ErrNilConfig is returned when a nil config is passed to a function.
	ErrNilConfig = errors.New("nil config")

	// ErrEmptyJWTKeyPath is returned when the JWT key path is empty.
	ErrEmptyJWTKeyPath = errors.New("empty JWT key path")
)

// KeyPair returns the server's JWT signing key pair. The pair is written to
// KeyPath on first use so issued tokens stay verifiable across restarts.
func (c JWTConfig) KeyPair() (*keygen.SSHKeyPair, error) {
	if c.KeyPath == "" {
		return nil, ErrEmptyJWTKeyPath
	}

	return keygen.New(c.KeyPath, keygen.WithKeyType(keygen.Ed25519), keygen.WithWrite())
}
