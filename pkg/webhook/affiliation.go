package webhook

import (
	"context"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/store"
)

// AffiliationEvent is an affiliation payload.
type AffiliationEvent struct {
	Common

	// Action is the affiliation event action.
	Action AffiliationEventAction `json:"action" url:"action"`

	// Affiliation is the affiliation payload.
	Affiliation Affiliation `json:"affiliation" url:"affiliation"`
}

// AffiliationEventAction is an affiliation event action.
type AffiliationEventAction string

const (
	// AffiliationEventActionCreate is an affiliation created event.
	AffiliationEventActionCreate AffiliationEventAction = "create"
	// AffiliationEventActionUpdate is an affiliation updated event.
	AffiliationEventActionUpdate AffiliationEventAction = "update"
	// AffiliationEventActionDelete is an affiliation deleted event.
	AffiliationEventActionDelete AffiliationEventAction = "delete"
)

// NewAffiliationEvent builds an affiliation event payload.
func NewAffiliationEvent(ctx context.Context, owner int64, aff proto.Affiliation, action AffiliationEventAction) (AffiliationEvent, error) {
	var event Event
	switch action {
	case AffiliationEventActionUpdate:
		event = EventAffiliationUpdate
	case AffiliationEventActionDelete:
		event = EventAffiliationDelete
	default:
		event = EventAffiliationCreate
	}

	dbx := db.FromContext(ctx)
	datastore := store.FromContext(ctx)
	user, err := datastore.GetUserByID(ctx, dbx, owner)
	if err != nil {
		return AffiliationEvent{}, db.WrapError(err)
	}

	payload := AffiliationEvent{
		Action: action,
		Common: Common{
			EventType: event,
			Owner: User{
				ID:     user.ID,
				Handle: user.Handle,
			},
		},
		Affiliation: Affiliation{
			ID:          aff.ID,
			CompanyName: aff.CompanyName,
			Title:       aff.Title,
			WebsiteURL:  aff.WebsiteURL,
			DateAdded:   aff.DateAdded,
			UpdatedAt:   aff.UpdatedAt,
		},
	}

	return payload, nil
}
