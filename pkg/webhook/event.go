package webhook

import (
	"encoding"
	"errors"
)

// Event is a webhook event.
type Event int

const (
	// EventAffiliationCreate is an affiliation create event.
	EventAffiliationCreate Event = 1

	// EventAffiliationUpdate is an affiliation update event.
	EventAffiliationUpdate Event = 2

	// EventAffiliationDelete is an affiliation delete event.
	EventAffiliationDelete Event = 3
)

// Events return all events.
func Events() []Event {
	return []Event{
		EventAffiliationCreate,
		EventAffiliationUpdate,
		EventAffiliationDelete,
	}
}

var eventStrings = map[Event]string{
	EventAffiliationCreate: "affiliation_create",
	EventAffiliationUpdate: "affiliation_update",
	EventAffiliationDelete: "affiliation_delete",
}

// String returns the string representation of the event.
func (e Event) String() string {
	return eventStrings[e]
}

var stringEvent = map[string]Event{
	"affiliation_create": EventAffiliationCreate,
	"affiliation_update": EventAffiliationUpdate,
	"affiliation_delete": EventAffiliationDelete,
}

// ErrInvalidEvent is returned when the event is invalid.
var ErrInvalidEvent = errors.New("invalid event")

// ParseEvent parses an event string and returns the event.
func ParseEvent(s string) (Event, error) {
	e, ok := stringEvent[s]
	if !ok {
		return -1, ErrInvalidEvent
	}

	return e, nil
}

var _ encoding.TextMarshaler = Event(0)
var _ encoding.TextUnmarshaler = (*Event)(nil)

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Event) UnmarshalText(text []byte) error {
	ev, err := ParseEvent(string(text))
	if err != nil {
		return err
	}

	*e = ev
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Event) MarshalText() (text []byte, err error) {
	ev := e.String()
	if ev == "" {
		return nil, ErrInvalidEvent
	}

	return []byte(ev), nil
}
