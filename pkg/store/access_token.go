package store

import (
	"context"
	"time"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
)

// AccessTokenStore manages API bearer tokens. Tokens are stored hashed; the
// raw value never touches the database.
type AccessTokenStore interface {
	GetAccessToken(ctx context.Context, h db.Handler, id int64) (models.AccessToken, error)
	GetAccessTokenByToken(ctx context.Context, h db.Handler, tokenHash string) (models.AccessToken, error)
	GetAccessTokensByUserID(ctx context.Context, h db.Handler, userID int64) ([]models.AccessToken, error)
	CreateAccessToken(ctx context.Context, h db.Handler, name string, userID int64, tokenHash string, expiresAt time.Time) (models.AccessToken, error)
	// DeleteAccessTokenForUser removes a token owned by userID. It returns
	// sql.ErrNoRows when the user owns no token with that id.
	DeleteAccessTokenForUser(ctx context.Context, h db.Handler, userID int64, id int64) error
	DeleteExpiredAccessTokens(ctx context.Context, h db.Handler, before time.Time) (int64, error)
}
