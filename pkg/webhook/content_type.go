package webhook

import (
	"encoding"
	"errors"
	"strings"
)

// ContentType selects how a webhook request body is encoded.
type ContentType int8

const (
	// ContentTypeJSON encodes the payload as JSON.
	ContentTypeJSON ContentType = iota
	// ContentTypeForm encodes the payload as form values.
	ContentTypeForm
)

// ErrInvalidContentType is returned when the content type is invalid.
var ErrInvalidContentType = errors.New("invalid content type")

var contentTypeNames = map[ContentType]string{
	ContentTypeJSON: "application/json",
	ContentTypeForm: "application/x-www-form-urlencoded",
}

// String returns the media type sent in the Content-Type header, or the
// empty string for an unknown value.
func (c ContentType) String() string {
	return contentTypeNames[c]
}

// ParseContentType parses a media type, ignoring any parameters after the
// type itself. Neither known media type is a prefix of the other, so the
// map order does not matter.
func ParseContentType(s string) (ContentType, error) {
	for ct, name := range contentTypeNames {
		if strings.HasPrefix(s, name) {
			return ct, nil
		}
	}

	return -1, ErrInvalidContentType
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContentType) UnmarshalText(text []byte) error {
	ct, err := ParseContentType(string(text))
	if err != nil {
		return err
	}

	*c = ct
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c ContentType) MarshalText() ([]byte, error) {
	s := c.String()
	if s == "" {
		return nil, ErrInvalidContentType
	}

	return []byte(s), nil
}

var (
	_ encoding.TextMarshaler   = ContentType(0)
	_ encoding.TextUnmarshaler = (*ContentType)(nil)
)
