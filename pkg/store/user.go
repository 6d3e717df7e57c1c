package store

import (
	"context"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
)

// UserStore is an interface for managing users.
type UserStore interface {
	GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error)
	FindUserByHandle(ctx context.Context, h db.Handler, handle string) (models.User, error)
	FindUserByAccessToken(ctx context.Context, h db.Handler, token string) (models.User, error)
	GetAllUsers(ctx context.Context, h db.Handler) ([]models.User, error)
	CreateUser(ctx context.Context, h db.Handler, handle string, name string, isAdmin bool, password string) error
	DeleteUserByHandle(ctx context.Context, h db.Handler, handle string) error
	SetHandleByHandle(ctx context.Context, h db.Handler, handle string, newHandle string) error
	SetAdminByHandle(ctx context.Context, h db.Handler, handle string, isAdmin bool) error
	SetDisplayNameByHandle(ctx context.Context, h db.Handler, handle string, name string) error
	SetUserPassword(ctx context.Context, h db.Handler, userID int64, password string) error
}
