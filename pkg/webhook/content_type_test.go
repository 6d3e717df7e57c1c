package webhook

import (
	"errors"
	"testing"
)

func TestParseContentType(t *testing.T) {
	cases := []struct {
		s    string
		want ContentType
		err  error
	}{
		{"application/json", ContentTypeJSON, nil},
		{"application/json; charset=utf-8", ContentTypeJSON, nil},
		{"application/x-www-form-urlencoded", ContentTypeForm, nil},
		{"text/plain", -1, ErrInvalidContentType},
		{"", -1, ErrInvalidContentType},
	}

	for _, c := range cases {
		got, err := ParseContentType(c.s)
		if !errors.Is(err, c.err) {
			t.Errorf("ParseContentType(%q) error = %v, want %v", c.s, err, c.err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseContentType(%q) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestContentTypeText(t *testing.T) {
	for _, ct := range []ContentType{ContentTypeJSON, ContentTypeForm} {
		text, err := ct.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", ct, err)
		}

		var back ContentType
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != ct {
			t.Errorf("round trip %q: got %v, want %v", text, back, ct)
		}
	}

	if _, err := ContentType(-1).MarshalText(); err == nil {
		t.Error("MarshalText(-1) succeeded, want error")
	}
}
