package access

import (
	"errors"
	"testing"
)

func TestAccessLevelRoundTrip(t *testing.T) {
	for _, level := range []AccessLevel{NoAccess, ReadOnlyAccess, ReadWriteAccess, AdminAccess} {
		if got := ParseAccessLevel(level.String()); got != level {
			t.Errorf("ParseAccessLevel(%q) = %d, want %d", level.String(), got, level)
		}

		text, err := level.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", level, err)
		}
		var back AccessLevel
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != level {
			t.Errorf("round trip %q: got %d, want %d", text, back, level)
		}
	}
}

func TestParseAccessLevelUnknown(t *testing.T) {
	for _, s := range []string{"", "foo", "admin"} {
		if got := ParseAccessLevel(s); got >= 0 {
			t.Errorf("ParseAccessLevel(%q) = %d, want negative", s, got)
		}
	}

	var level AccessLevel
	if err := level.UnmarshalText([]byte("foo")); !errors.Is(err, ErrInvalidAccessLevel) {
		t.Errorf("UnmarshalText(foo) = %v, want %v", err, ErrInvalidAccessLevel)
	}
}
