package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

type testUser struct {
	id     int64
	handle string
}

func (u testUser) ID() int64           { return u.id }
func (u testUser) Handle() string      { return u.handle }
func (u testUser) DisplayName() string { return u.handle }
func (u testUser) IsAdmin() bool       { return false }
func (u testUser) Password() string    { return "" }

func TestSessionSignedOut(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	_, err := s.Current(context.TODO())
	is.True(errors.Is(err, proto.ErrNotAuthenticated))
}

func TestSessionSignIn(t *testing.T) {
	is := is.New(t)
	s := NewSession()
	s.SignIn(testUser{id: 1, handle: "jane"})
	u, err := s.Current(context.TODO())
	is.NoErr(err)
	is.Equal(u.Handle(), "jane")

	s.SignOut()
	_, err = s.Current(context.TODO())
	is.True(errors.Is(err, proto.ErrNotAuthenticated))
}

func TestSessionSubscribe(t *testing.T) {
	is := is.New(t)
	s := NewSession()

	var got []proto.User
	cancel := s.Subscribe(func(u proto.User) {
		got = append(got, u)
	})

	s.SignIn(testUser{id: 1, handle: "jane"})
	s.SignOut()
	cancel()
	s.SignIn(testUser{id: 2, handle: "carlos"})

	is.Equal(len(got), 2)
	is.Equal(got[0].Handle(), "jane")
	is.Equal(got[1], nil)
}
