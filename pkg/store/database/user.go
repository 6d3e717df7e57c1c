package database

import (
	"context"
	"strings"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/store"
	"github.com/venturelinkhq/venturelink/pkg/utils"
)

type userStore struct{}

var _ store.UserStore = (*userStore)(nil)

// normalizeHandle lowercases and validates a handle before it reaches SQL.
// Handles are case-insensitive throughout.
func normalizeHandle(handle string) (string, error) {
	handle = strings.ToLower(handle)
	if err := utils.ValidateHandle(handle); err != nil {
		return "", err //nolint:wrapcheck
	}
	return handle, nil
}

// CreateUser implements store.UserStore.
func (*userStore) CreateUser(ctx context.Context, h db.Handler, handle string, name string, isAdmin bool, password string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	_, err = h.ExecContext(ctx,
		h.Rebind(`INSERT INTO users (handle, name, admin, password, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`),
		handle, sqlNullString(name), isAdmin, sqlNullString(password))
	return err //nolint:wrapcheck
}

// DeleteUserByHandle implements store.UserStore.
func (*userStore) DeleteUserByHandle(ctx context.Context, h db.Handler, handle string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	_, err = h.ExecContext(ctx, h.Rebind(`DELETE FROM users WHERE handle = ?`), handle)
	return err //nolint:wrapcheck
}

// GetUserByID implements store.UserStore.
func (*userStore) GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error) {
	var u models.User
	err := h.GetContext(ctx, &u, h.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	return u, err //nolint:wrapcheck
}

// FindUserByHandle implements store.UserStore.
func (*userStore) FindUserByHandle(ctx context.Context, h db.Handler, handle string) (models.User, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return models.User{}, err
	}

	var u models.User
	err = h.GetContext(ctx, &u, h.Rebind(`SELECT * FROM users WHERE handle = ?`), handle)
	return u, err //nolint:wrapcheck
}

// FindUserByAccessToken implements store.UserStore.
func (*userStore) FindUserByAccessToken(ctx context.Context, h db.Handler, token string) (models.User, error) {
	var u models.User
	err := h.GetContext(ctx, &u, h.Rebind(`
		SELECT users.* FROM users
		INNER JOIN access_tokens ON users.id = access_tokens.user_id
		WHERE access_tokens.token = ?
	`), token)
	return u, err //nolint:wrapcheck
}

// GetAllUsers implements store.UserStore.
func (*userStore) GetAllUsers(ctx context.Context, h db.Handler) ([]models.User, error) {
	var us []models.User
	err := h.SelectContext(ctx, &us, h.Rebind(`SELECT * FROM users ORDER BY handle`))
	return us, err //nolint:wrapcheck
}

// SetHandleByHandle implements store.UserStore.
func (*userStore) SetHandleByHandle(ctx context.Context, h db.Handler, handle string, newHandle string) error {
	newHandle, err := normalizeHandle(newHandle)
	if err != nil {
		return err
	}

	_, err = h.ExecContext(ctx,
		h.Rebind(`UPDATE users SET handle = ?, updated_at = CURRENT_TIMESTAMP WHERE handle = ?`),
		newHandle, strings.ToLower(handle))
	return err //nolint:wrapcheck
}

// SetAdminByHandle implements store.UserStore.
func (*userStore) SetAdminByHandle(ctx context.Context, h db.Handler, handle string, isAdmin bool) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	_, err = h.ExecContext(ctx,
		h.Rebind(`UPDATE users SET admin = ?, updated_at = CURRENT_TIMESTAMP WHERE handle = ?`),
		isAdmin, handle)
	return err //nolint:wrapcheck
}

// SetDisplayNameByHandle implements store.UserStore.
func (*userStore) SetDisplayNameByHandle(ctx context.Context, h db.Handler, handle string, name string) error {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return err
	}

	_, err = h.ExecContext(ctx,
		h.Rebind(`UPDATE users SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE handle = ?`),
		sqlNullString(name), handle)
	return err //nolint:wrapcheck
}

// SetUserPassword implements store.UserStore.
func (*userStore) SetUserPassword(ctx context.Context, h db.Handler, userID int64, password string) error {
	_, err := h.ExecContext(ctx,
		h.Rebind(`UPDATE users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
		sqlNullString(password), userID)
	return err //nolint:wrapcheck
}
