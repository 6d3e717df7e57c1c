// Package identity resolves the signed-in user and reports sign-in changes.
package identity

import (
	"context"
	"sync"

	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// Source resolves the currently signed-in user.
type Source interface {
	// Current returns the signed-in user, or proto.ErrNotAuthenticated
	// when nobody is signed in.
	Current(ctx context.Context) (proto.User, error)

	// Subscribe registers fn to run whenever the signed-in user changes.
	// fn receives nil on sign-out. The returned function cancels the
	// subscription.
	Subscribe(fn func(proto.User)) (cancel func())
}

// Session is an in-process Source tracking a single sign-in.
type Session struct {
	mtx  sync.RWMutex
	user proto.User
	subs map[int64]func(proto.User)
	next int64
}

var _ Source = (*Session)(nil)

// NewSession returns a signed-out session.
func NewSession() *Session {
	return &Session{
		subs: make(map[int64]func(proto.User)),
	}
}

// SignIn switches the session to the given user and notifies subscribers.
func (s *Session) SignIn(user proto.User) {
	s.mtx.Lock()
	s.user = user
	s.mtx.Unlock()
	s.notify(user)
}

// SignOut clears the session and notifies subscribers with a nil user.
func (s *Session) SignOut() {
	s.mtx.Lock()
	s.user = nil
	s.mtx.Unlock()
	s.notify(nil)
}

// Current implements Source.
func (s *Session) Current(_ context.Context) (proto.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	if s.user == nil {
		return nil, proto.ErrNotAuthenticated
	}
	return s.user, nil
}

// Subscribe implements Source.
func (s *Session) Subscribe(fn func(proto.User)) func() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mtx.Lock()
		defer s.mtx.Unlock()
		delete(s.subs, id)
	}
}

// notify runs subscriber callbacks outside the session lock.
func (s *Session) notify(user proto.User) {
	s.mtx.RLock()
	fns := make([]func(proto.User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mtx.RUnlock()
	for _, fn := range fns {
		fn(user)
	}
}
