package backend

import (
	"github.com/venturelinkhq/venturelink/pkg/access"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// AccessLevelForUser returns the access level of a user for another user's
// roster. Admins hold admin access everywhere; users hold read-write access
// to their own roster and none to anybody else's.
func (b *Backend) AccessLevelForUser(user proto.User, owner proto.User) access.AccessLevel {
	if user == nil || owner == nil {
		return access.NoAccess
	}

	if user.IsAdmin() {
		return access.AdminAccess
	}

	if user.ID() == owner.ID() {
		return access.ReadWriteAccess
	}

	return access.NoAccess
}
