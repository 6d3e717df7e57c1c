// Package store provides data store functionality.
package store

import (
	"context"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
)

// AffiliationStore is an interface for managing company affiliations.
// All operations are scoped to the owning user.
type AffiliationStore interface {
	GetAffiliationByID(ctx context.Context, h db.Handler, userID int64, id string) (models.Affiliation, error)
	// GetAffiliationsByUserID returns the user's affiliations newest first.
	GetAffiliationsByUserID(ctx context.Context, h db.Handler, userID int64) ([]models.Affiliation, error)
	CreateAffiliation(ctx context.Context, h db.Handler, id string, userID int64, companyName string, title string, websiteURL string) (models.Affiliation, error)
	// UpdateAffiliationByID returns sql.ErrNoRows when the user owns no
	// affiliation with that id.
	UpdateAffiliationByID(ctx context.Context, h db.Handler, userID int64, id string, companyName string, title string, websiteURL string) error
	// DeleteAffiliationByID returns sql.ErrNoRows when the user owns no
	// affiliation with that id.
	DeleteAffiliationByID(ctx context.Context, h db.Handler, userID int64, id string) error
}
