package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/store"
)

type accessTokenStore struct{}

var _ store.AccessTokenStore = (*accessTokenStore)(nil)

// CreateAccessToken implements store.AccessTokenStore.
func (s *accessTokenStore) CreateAccessToken(ctx context.Context, h db.Handler, name string, userID int64, tokenHash string, expiresAt time.Time) (models.AccessToken, error) {
	cols := "name, user_id, token, created_at, updated_at"
	vals := "?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP"
	args := []any{name, userID, tokenHash}
	if !expiresAt.IsZero() {
		cols = "name, user_id, token, expires_at, created_at, updated_at"
		vals = "?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP"
		args = append(args, expiresAt.UTC())
	}

	var id int64
	query := h.Rebind("INSERT INTO access_tokens (" + cols + ") VALUES (" + vals + ") RETURNING id")
	if err := h.GetContext(ctx, &id, query, args...); err != nil {
		return models.AccessToken{}, err //nolint:wrapcheck
	}

	return s.GetAccessToken(ctx, h, id)
}

// DeleteAccessTokenForUser implements store.AccessTokenStore.
func (*accessTokenStore) DeleteAccessTokenForUser(ctx context.Context, h db.Handler, userID int64, id int64) error {
	r, err := h.ExecContext(ctx, h.Rebind(`DELETE FROM access_tokens WHERE user_id = ? AND id = ?`), userID, id)
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

// DeleteExpiredAccessTokens implements store.AccessTokenStore.
func (*accessTokenStore) DeleteExpiredAccessTokens(ctx context.Context, h db.Handler, before time.Time) (int64, error) {
	r, err := h.ExecContext(ctx, h.Rebind(`DELETE FROM access_tokens WHERE expires_at IS NOT NULL AND expires_at < ?`), before.UTC())
	if err != nil {
		return 0, err //nolint:wrapcheck
	}
	return r.RowsAffected() //nolint:wrapcheck
}

// GetAccessToken implements store.AccessTokenStore.
func (*accessTokenStore) GetAccessToken(ctx context.Context, h db.Handler, id int64) (models.AccessToken, error) {
	var t models.AccessToken
	err := h.GetContext(ctx, &t, h.Rebind(`SELECT * FROM access_tokens WHERE id = ?`), id)
	return t, err //nolint:wrapcheck
}

// GetAccessTokenByToken implements store.AccessTokenStore.
func (*accessTokenStore) GetAccessTokenByToken(ctx context.Context, h db.Handler, tokenHash string) (models.AccessToken, error) {
	var t models.AccessToken
	err := h.GetContext(ctx, &t, h.Rebind(`SELECT * FROM access_tokens WHERE token = ?`), tokenHash)
	return t, err //nolint:wrapcheck
}

// GetAccessTokensByUserID implements store.AccessTokenStore.
func (*accessTokenStore) GetAccessTokensByUserID(ctx context.Context, h db.Handler, userID int64) ([]models.AccessToken, error) {
	var ts []models.AccessToken
	err := h.SelectContext(ctx, &ts, h.Rebind(`SELECT * FROM access_tokens WHERE user_id = ? ORDER BY created_at DESC, id DESC`), userID)
	return ts, err //nolint:wrapcheck
}
