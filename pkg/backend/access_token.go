package backend

import (
	"context"
	"errors"
	"time"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// CreateAccessToken mints a bearer token for user. Only the hash is stored;
// the raw token is returned exactly once and cannot be recovered later.
func (b *Backend) CreateAccessToken(ctx context.Context, user proto.User, name string, expiresAt time.Time) (string, error) {
	token := GenerateToken()
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		_, err := b.store.CreateAccessToken(ctx, tx, name, user.ID(), HashToken(token), expiresAt)
		return db.WrapError(err)
	}); err != nil {
		return "", err
	}
	return token, nil
}

// DeleteAccessToken removes one of user's tokens. Tokens owned by someone
// else are reported as missing.
func (b *Backend) DeleteAccessToken(ctx context.Context, user proto.User, id int64) error {
	err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return db.WrapError(b.store.DeleteAccessTokenForUser(ctx, tx, user.ID(), id))
	})
	if errors.Is(err, db.ErrRecordNotFound) {
		return proto.ErrTokenNotFound
	}
	return err
}

// ListAccessTokens returns user's tokens, newest first.
func (b *Backend) ListAccessTokens(ctx context.Context, user proto.User) ([]proto.AccessToken, error) {
	rows, err := b.store.GetAccessTokensByUserID(ctx, b.db, user.ID())
	if err != nil {
		return nil, db.WrapError(err)
	}

	tokens := make([]proto.AccessToken, 0, len(rows))
	for _, r := range rows {
		tokens = append(tokens, toProtoAccessToken(r))
	}
	return tokens, nil
}

func toProtoAccessToken(m models.AccessToken) proto.AccessToken {
	t := proto.AccessToken{
		ID:        m.ID,
		Name:      m.Name,
		UserID:    m.UserID,
		TokenHash: m.Token,
		CreatedAt: m.CreatedAt,
	}
	if m.ExpiresAt.Valid {
		t.ExpiresAt = m.ExpiresAt.Time
	}
	return t
}
