// Package database provides database store implementations.
package database

import (
	"context"
	"database/sql"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/store"
)

type affiliationStore struct{}

var _ store.AffiliationStore = (*affiliationStore)(nil)

// CreateAffiliation implements store.AffiliationStore.
func (s *affiliationStore) CreateAffiliation(ctx context.Context, h db.Handler, id string, userID int64, companyName string, title string, websiteURL string) (models.Affiliation, error) {
	_, err := h.ExecContext(ctx, h.Rebind(`
		INSERT INTO affiliations (id, user_id, company_name, title, website_url, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`), id, userID, companyName, title, sqlNullString(websiteURL))
	if err != nil {
		return models.Affiliation{}, err //nolint:wrapcheck
	}

	return s.GetAffiliationByID(ctx, h, userID, id)
}

// GetAffiliationByID implements store.AffiliationStore.
func (*affiliationStore) GetAffiliationByID(ctx context.Context, h db.Handler, userID int64, id string) (models.Affiliation, error) {
	var m models.Affiliation
	err := h.GetContext(ctx, &m, h.Rebind(`
		SELECT * FROM affiliations WHERE user_id = ? AND id = ?
	`), userID, id)
	return m, err //nolint:wrapcheck
}

// GetAffiliationsByUserID implements store.AffiliationStore. Rows come back
// newest first; seq breaks creation time ties.
func (*affiliationStore) GetAffiliationsByUserID(ctx context.Context, h db.Handler, userID int64) ([]models.Affiliation, error) {
	var ms []models.Affiliation
	err := h.SelectContext(ctx, &ms, h.Rebind(`
		SELECT * FROM affiliations WHERE user_id = ?
		ORDER BY created_at DESC, seq DESC
	`), userID)
	return ms, err //nolint:wrapcheck
}

// UpdateAffiliationByID implements store.AffiliationStore. It returns
// sql.ErrNoRows when the user owns no affiliation with that id.
func (*affiliationStore) UpdateAffiliationByID(ctx context.Context, h db.Handler, userID int64, id string, companyName string, title string, websiteURL string) error {
	r, err := h.ExecContext(ctx, h.Rebind(`
		UPDATE affiliations
		SET company_name = ?, title = ?, website_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ?
	`), companyName, title, sqlNullString(websiteURL), userID, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	n, err := r.RowsAffected()
	if err != nil {
		return err //nolint:wrapcheck
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteAffiliationByID implements store.AffiliationStore. It returns
// sql.ErrNoRows when the user owns no affiliation with that id.
func (*affiliationStore) DeleteAffiliationByID(ctx context.Context, h db.Handler, userID int64, id string) error {
	r, err := h.ExecContext(ctx, h.Rebind(`
		DELETE FROM affiliations WHERE user_id = ? AND id = ?
	`), userID, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	n, err := r.RowsAffected()
	if err != nil {
		return err //nolint:wrapcheck
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
