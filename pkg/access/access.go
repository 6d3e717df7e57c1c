// Package access defines the levels of access a user can hold on a roster.
package access

import (
	"encoding"
	"errors"
)

// AccessLevel is the level of access allowed on a user's roster.
type AccessLevel int // nolint: revive

const (
	// NoAccess allows nothing.
	NoAccess AccessLevel = iota

	// ReadOnlyAccess allows reading the roster.
	ReadOnlyAccess

	// ReadWriteAccess allows reading and changing the roster.
	ReadWriteAccess

	// AdminAccess allows everything ReadWriteAccess does plus
	// administrative operations.
	AdminAccess
)

// ErrInvalidAccessLevel is returned when parsing an unknown access level.
var ErrInvalidAccessLevel = errors.New("invalid access level")

var levelNames = map[AccessLevel]string{
	NoAccess:        "no-access",
	ReadOnlyAccess:  "read-only",
	ReadWriteAccess: "read-write",
	AdminAccess:     "admin-access",
}

// String returns the string form used in config files and the API.
func (a AccessLevel) String() string {
	if name, ok := levelNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAccessLevel parses an access level string. Unknown strings parse to
// a negative level.
func ParseAccessLevel(s string) AccessLevel {
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return AccessLevel(-1)
}

var (
	_ encoding.TextMarshaler   = AccessLevel(0)
	_ encoding.TextUnmarshaler = (*AccessLevel)(nil)
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccessLevel) UnmarshalText(text []byte) error {
	level := ParseAccessLevel(string(text))
	if level < 0 {
		return ErrInvalidAccessLevel
	}

	*a = level

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a AccessLevel) MarshalText() (text []byte, err error) {
	return []byte(a.String()), nil
}
