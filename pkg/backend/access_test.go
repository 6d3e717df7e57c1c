package backend

import (
	"testing"

	"github.com/venturelinkhq/venturelink/pkg/access"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

func TestAccessLevelForUser(t *testing.T) {
	ctx, be := setupTestBackend(t)

	jane, err := be.CreateUser(ctx, "jane", proto.UserOptions{})
	if err != nil {
		t.Fatal(err)
	}
	joe, err := be.CreateUser(ctx, "joe", proto.UserOptions{})
	if err != nil {
		t.Fatal(err)
	}
	root, err := be.CreateUser(ctx, "root", proto.UserOptions{Admin: true})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		user  proto.User
		owner proto.User
		want  access.AccessLevel
	}{
		{"own roster", jane, jane, access.ReadWriteAccess},
		{"someone else's roster", jane, joe, access.NoAccess},
		{"admin on any roster", root, jane, access.AdminAccess},
		{"nil user", nil, jane, access.NoAccess},
		{"nil owner", jane, nil, access.NoAccess},
	}

	for _, c := range cases {
		if got := be.AccessLevelForUser(c.user, c.owner); got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}
