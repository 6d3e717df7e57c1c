package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/store"
	"github.com/venturelinkhq/venturelink/pkg/utils"
	"github.com/venturelinkhq/venturelink/pkg/webhook"
)

var mutationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "venturelink",
	Subsystem: "affiliations",
	Name:      "mutations_total",
	Help:      "The total number of affiliation mutations",
}, []string{"action"})

// ListAffiliations returns all company affiliations owned by the user,
// newest first.
func (b *Backend) ListAffiliations(ctx context.Context, owner int64) ([]proto.Affiliation, error) {
	ms, err := b.store.GetAffiliationsByUserID(ctx, b.db, owner)
	if err != nil {
		return nil, db.WrapError(err)
	}

	affs := make([]proto.Affiliation, 0, len(ms))
	for _, m := range ms {
		affs = append(affs, affiliationFromModel(m))
	}

	return affs, nil
}

// Affiliation finds one of the user's affiliations by id. It returns
// proto.ErrAffiliationNotFound if the entry does not exist or is owned by
// another user.
func (b *Backend) Affiliation(ctx context.Context, owner int64, id string) (proto.Affiliation, error) {
	m, err := b.store.GetAffiliationByID(ctx, b.db, owner, id)
	if err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.Affiliation{}, proto.ErrAffiliationNotFound
		}
		return proto.Affiliation{}, err
	}

	return affiliationFromModel(m), nil
}

// CreateAffiliation creates a new affiliation for the user. The entry is
// validated and its fields trimmed before it is written.
func (b *Backend) CreateAffiliation(ctx context.Context, owner int64, change proto.AffiliationChange) (proto.Affiliation, error) {
	change, err := validateAffiliationChange(change)
	if err != nil {
		return proto.Affiliation{}, err
	}

	var m models.Affiliation
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = b.store.CreateAffiliation(ctx, tx, uuid.NewString(), owner, change.CompanyName, change.Title, change.WebsiteURL)
		return err
	}); err != nil {
		err = db.WrapError(err)
		b.logger.Error("error creating affiliation", "owner", owner, "company", change.CompanyName, "error", err)
		return proto.Affiliation{}, err
	}

	aff := affiliationFromModel(m)
	b.fireAffiliationEvent(owner, aff, webhook.AffiliationEventActionCreate)

	return aff, nil
}

// UpdateAffiliation replaces the editable fields of an affiliation. It
// returns proto.ErrAffiliationNotFound if the entry does not exist or is
// owned by another user.
func (b *Backend) UpdateAffiliation(ctx context.Context, owner int64, id string, change proto.AffiliationChange) (proto.Affiliation, error) {
	change, err := validateAffiliationChange(change)
	if err != nil {
		return proto.Affiliation{}, err
	}

	var m models.Affiliation
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := b.store.UpdateAffiliationByID(ctx, tx, owner, id, change.CompanyName, change.Title, change.WebsiteURL); err != nil {
			return err
		}

		var err error
		m, err = b.store.GetAffiliationByID(ctx, tx, owner, id)
		return err
	}); err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.Affiliation{}, proto.ErrAffiliationNotFound
		}
		b.logger.Error("error updating affiliation", "owner", owner, "id", id, "error", err)
		return proto.Affiliation{}, err
	}

	aff := affiliationFromModel(m)
	b.fireAffiliationEvent(owner, aff, webhook.AffiliationEventActionUpdate)

	return aff, nil
}

// DeleteAffiliation deletes an affiliation. It returns
// proto.ErrAffiliationNotFound if the entry does not exist or is owned by
// another user.
func (b *Backend) DeleteAffiliation(ctx context.Context, owner int64, id string) error {
	var m models.Affiliation
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = b.store.GetAffiliationByID(ctx, tx, owner, id)
		if err != nil {
			return err
		}

		return b.store.DeleteAffiliationByID(ctx, tx, owner, id)
	}); err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.ErrAffiliationNotFound
		}
		b.logger.Error("error deleting affiliation", "owner", owner, "id", id, "error", err)
		return err
	}

	b.fireAffiliationEvent(owner, affiliationFromModel(m), webhook.AffiliationEventActionDelete)

	return nil
}

// fireAffiliationEvent counts the mutation and delivers webhook events for
// it. Deliveries run off the request path on the server context so a slow or
// broken target cannot fail the mutation itself.
func (b *Backend) fireAffiliationEvent(owner int64, aff proto.Affiliation, action webhook.AffiliationEventAction) {
	mutationsCounter.WithLabelValues(string(action)).Inc()

	if db.FromContext(b.ctx) == nil || store.FromContext(b.ctx) == nil {
		return
	}

	go func() {
		payload, err := webhook.NewAffiliationEvent(b.ctx, owner, aff, action)
		if err != nil {
			b.logger.Error("error building affiliation event", "owner", owner, "action", action, "error", err)
			return
		}

		if err := webhook.SendEvent(b.ctx, payload); err != nil {
			b.logger.Error("error sending affiliation event", "owner", owner, "action", action, "error", err)
		}
	}()
}

func validateAffiliationChange(change proto.AffiliationChange) (proto.AffiliationChange, error) {
	change.CompanyName = strings.TrimSpace(change.CompanyName)
	change.Title = strings.TrimSpace(change.Title)
	change.WebsiteURL = strings.TrimSpace(change.WebsiteURL)

	if err := utils.ValidateCompanyName(change.CompanyName); err != nil {
		return change, err
	}
	if err := utils.ValidateTitle(change.Title); err != nil {
		return change, err
	}
	if err := utils.ValidateWebsiteURL(change.WebsiteURL); err != nil {
		return change, err
	}

	return change, nil
}

func affiliationFromModel(m models.Affiliation) proto.Affiliation {
	aff := proto.Affiliation{
		ID:          m.ID,
		CompanyName: m.CompanyName,
		Title:       m.Title,
		DateAdded:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.WebsiteURL.Valid {
		aff.WebsiteURL = m.WebsiteURL.String
	}

	return aff
}
