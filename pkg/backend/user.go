package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/utils"
)

// user adapts a models.User row to proto.User.
type user struct {
	model models.User
}

var _ proto.User = (*user)(nil)

func (u *user) ID() int64      { return u.model.ID }
func (u *user) Handle() string { return u.model.Handle }
func (u *user) IsAdmin() bool  { return u.model.Admin }

func (u *user) DisplayName() string {
	if u.model.Name.Valid {
		return u.model.Name.String
	}
	return ""
}

func (u *user) Password() string {
	if u.model.Password.Valid {
		return u.model.Password.String
	}
	return ""
}

// normalizeHandle lowercases and validates handle. Backend user operations
// address users by normalized handle only.
func normalizeHandle(handle string) (string, error) {
	handle = strings.ToLower(handle)
	if err := utils.ValidateHandle(handle); err != nil {
		return "", err
	}
	return handle, nil
}

// User finds a user by handle.
func (b *Backend) User(ctx context.Context, handle string) (proto.User, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}

	if u, ok := b.cache.Get(handle); ok {
		return u, nil
	}

	m, err := b.store.FindUserByHandle(ctx, b.db, handle)
	if err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, proto.ErrUserNotFound
		}
		b.logger.Error("error finding user", "handle", handle, "error", err)
		return nil, err
	}

	u := &user{model: m}
	b.cache.Set(handle, u)
	return u, nil
}

// UserByID finds a user by database id.
func (b *Backend) UserByID(ctx context.Context, id int64) (proto.User, error) {
	m, err := b.store.GetUserByID(ctx, b.db, id)
	if err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, proto.ErrUserNotFound
		}
		b.logger.Error("error finding user", "id", id, "error", err)
		return nil, err
	}
	return &user{model: m}, nil
}

// UserByAccessToken resolves an access token to its user. Expired tokens
// return proto.ErrTokenExpired; unknown tokens return proto.ErrUserNotFound.
func (b *Backend) UserByAccessToken(ctx context.Context, token string) (proto.User, error) {
	hash := HashToken(token)

	var m models.User
	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		t, err := b.store.GetAccessTokenByToken(ctx, tx, hash)
		if err != nil {
			return db.WrapError(err)
		}
		if t.ExpiresAt.Valid && t.ExpiresAt.Time.Before(time.Now()) {
			return proto.ErrTokenExpired
		}

		m, err = b.store.FindUserByAccessToken(ctx, tx, hash)
		return db.WrapError(err)
	}); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, proto.ErrUserNotFound
		}
		return nil, err
	}

	return &user{model: m}, nil
}

// Users returns every user handle, sorted.
func (b *Backend) Users(ctx context.Context) ([]string, error) {
	ms, err := b.store.GetAllUsers(ctx, b.db)
	if err != nil {
		return nil, db.WrapError(err)
	}

	handles := make([]string, 0, len(ms))
	for _, m := range ms {
		handles = append(handles, m.Handle)
	}
	return handles, nil
}

// CreateUser creates a new user. The password in opts is stored hashed; an
// empty password leaves the account token-only.
func (b *Backend) CreateUser(ctx context.Context, handle string, opts proto.UserOptions) (proto.User, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}

	var password string
	if opts.Password != "" {
		password, err = HashPassword(opts.Password)
		if err != nil {
			return nil, err
		}
	}

	if err := b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.CreateUser(ctx, tx, handle, opts.DisplayName, opts.Admin, password)
	}); err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrDuplicateKey) {
			return nil, proto.ErrUserExist
		}
		return nil, err
	}

	return b.User(ctx, handle)
}

// DeleteUser removes a user. Affiliations, tokens, and webhooks go with it
// via foreign key cascade.
func (b *Backend) DeleteUser(ctx context.Context, handle string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	defer b.cache.Delete(handle)

	return db.WrapError(b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.DeleteUserByHandle(ctx, tx, handle)
	}))
}

// SetHandle renames a user. The new handle must be free.
func (b *Backend) SetHandle(ctx context.Context, handle string, newHandle string) error {
	handle = strings.ToLower(handle)
	newHandle, err := normalizeHandle(newHandle)
	if err != nil {
		return err
	}

	defer b.cache.Delete(handle)

	err = db.WrapError(b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.SetHandleByHandle(ctx, tx, handle, newHandle)
	}))
	if errors.Is(err, db.ErrDuplicateKey) {
		return proto.ErrUserExist
	}
	return err
}

// SetAdmin toggles the admin flag for a user.
func (b *Backend) SetAdmin(ctx context.Context, handle string, admin bool) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	defer b.cache.Delete(handle)

	return db.WrapError(b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.SetAdminByHandle(ctx, tx, handle, admin)
	}))
}

// SetDisplayName sets the display name for a user. An empty name clears it.
func (b *Backend) SetDisplayName(ctx context.Context, handle string, name string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	defer b.cache.Delete(handle)

	return db.WrapError(b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return b.store.SetDisplayNameByHandle(ctx, tx, handle, name)
	}))
}

// SetPassword replaces a user's password.
func (b *Backend) SetPassword(ctx context.Context, handle string, rawPassword string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	password, err := HashPassword(rawPassword)
	if err != nil {
		return err
	}

	defer b.cache.Delete(handle)

	return db.WrapError(b.db.TransactionContext(ctx, func(tx *db.Tx) error {
		u, err := b.store.FindUserByHandle(ctx, tx, handle)
		if err != nil {
			return err
		}
		return b.store.SetUserPassword(ctx, tx, u.ID, password)
	}))
}
