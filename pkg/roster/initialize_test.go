package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/venturelinkhq/venturelink/pkg/proto"
)

func TestInitializeEmptyRoster(t *testing.T) {
	is := is.New(t)
	s, _, session := setupRoster(t)
	session.SignIn(testUser{id: 1, handle: "u1"})

	is.NoErr(s.Initialize(context.TODO()))

	st := s.State()
	is.Equal(st.Status, StatusReady)
	is.Equal(st.Owner, int64(1))
	is.Equal(len(st.Affiliations), 0)
	is.True(st.Initialized)
	is.True(!st.Loading)
	is.NoErr(st.Err)
}

func TestInitializeNotSignedIn(t *testing.T) {
	is := is.New(t)
	s, remote, _ := setupRoster(t)

	is.NoErr(s.Initialize(context.TODO()))

	st := s.State()
	is.Equal(st.Status, StatusUninitialized)
	is.True(!st.Initialized)
	list, _, _, _ := remote.calls()
	is.Equal(list, 0)
}

func TestInitializeNewestFirst(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	remote.seed(1, "Oldest", "Analyst", "")
	remote.seed(1, "Middle", "Associate", "")
	remote.seed(1, "Newest", "Partner", "")
	session.SignIn(testUser{id: 1, handle: "u1"})

	is.NoErr(s.Initialize(context.TODO()))

	affs := s.Affiliations()
	is.Equal(len(affs), 3)
	is.Equal(affs[0].CompanyName, "Newest")
	is.Equal(affs[2].CompanyName, "Oldest")
	for i := 1; i < len(affs); i++ {
		is.True(!affs[i-1].DateAdded.Before(affs[i].DateAdded))
	}
}

func TestInitializeIdempotent(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	remote.seed(1, "Initech", "CTO", "")
	session.SignIn(testUser{id: 1, handle: "u1"})

	is.NoErr(s.Initialize(context.TODO()))
	is.NoErr(s.Initialize(context.TODO()))
	is.NoErr(s.Initialize(context.TODO()))

	list, _, _, _ := remote.calls()
	is.Equal(list, 1)
}

func TestInitializeJoinsInflight(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	remote.seed(1, "Initech", "CTO", "")
	session.SignIn(testUser{id: 1, handle: "u1"})

	gate := make(chan struct{})
	started := make(chan struct{}, 2)
	remote.setGate(gate, started)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- s.Initialize(context.TODO())
		}()
	}

	<-started
	is.True(s.State().Loading)

	close(gate)
	is.NoErr(<-errs)
	is.NoErr(<-errs)

	list, _, _, _ := remote.calls()
	is.Equal(list, 1)
	is.Equal(s.State().Status, StatusReady)
}

func TestInitializeFailureRetry(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	remote.seed(1, "Initech", "CTO", "")
	session.SignIn(testUser{id: 1, handle: "u1"})

	boom := errors.New("boom")
	remote.setErr(boom)

	err := s.Initialize(context.TODO())
	is.True(errors.Is(err, boom))

	st := s.State()
	is.Equal(st.Status, StatusUninitialized)
	is.True(!st.Initialized)
	is.True(!st.Loading)
	is.True(errors.Is(st.Err, boom))

	remote.setErr(nil)
	is.NoErr(s.Initialize(context.TODO()))

	st = s.State()
	is.Equal(st.Status, StatusReady)
	is.True(st.Initialized)
	is.NoErr(st.Err)
	is.Equal(len(st.Affiliations), 1)
}

func TestInitializeTimeout(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t, WithTimeout(50*time.Millisecond))
	session.SignIn(testUser{id: 1, handle: "u1"})

	remote.setGate(make(chan struct{}), nil)

	err := s.Initialize(context.TODO())
	is.True(errors.Is(err, proto.ErrTimeout))
	is.True(errors.Is(s.State().Err, proto.ErrTimeout))
	is.True(!s.State().Initialized)
}

func TestIdentityChangeResets(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	remote.seed(1, "Initech", "CTO", "")
	remote.seed(1, "Globex", "Partner", "")
	remote.seed(2, "Acme", "Founder", "")
	session.SignIn(testUser{id: 1, handle: "u1"})
	is.NoErr(s.Initialize(context.TODO()))
	s.MarkDirty(FieldCompanyName)
	is.Equal(len(s.Affiliations()), 2)

	// The switch clears everything before any data for the next
	// identity loads.
	session.SignIn(testUser{id: 2, handle: "u2"})

	st := s.State()
	is.Equal(st.Status, StatusUninitialized)
	is.Equal(st.Owner, int64(0))
	is.Equal(len(st.Affiliations), 0)
	is.True(!st.Initialized)
	is.Equal(len(st.Dirty), 0)
	is.NoErr(st.Err)

	is.NoErr(s.Initialize(context.TODO()))
	affs := s.Affiliations()
	is.Equal(len(affs), 1)
	is.Equal(affs[0].CompanyName, "Acme")
}

func TestSignOutResets(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	remote.seed(1, "Initech", "CTO", "")
	session.SignIn(testUser{id: 1, handle: "u1"})
	is.NoErr(s.Initialize(context.TODO()))
	is.Equal(len(s.Affiliations()), 1)

	session.SignOut()

	st := s.State()
	is.Equal(len(st.Affiliations), 0)
	is.True(!st.Initialized)

	// Initialize with nobody signed in stays a no-op.
	is.NoErr(s.Initialize(context.TODO()))
	is.True(!s.State().Initialized)
}

func TestStaleFetchDiscarded(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	remote.seed(1, "Initech", "CTO", "")
	session.SignIn(testUser{id: 1, handle: "u1"})

	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	remote.setGate(gate, started)

	errs := make(chan error, 1)
	go func() {
		errs <- s.Initialize(context.TODO())
	}()
	<-started

	// The identity changes while the fetch for u1 is still in flight.
	session.SignIn(testUser{id: 2, handle: "u2"})
	close(gate)

	err := <-errs
	is.True(errors.Is(err, proto.ErrIdentityMismatch))

	// u1's rows were never installed.
	st := s.State()
	is.Equal(len(st.Affiliations), 0)
	is.True(!st.Initialized)
	is.Equal(st.Owner, int64(0))
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	s, remote, session := setupRoster(t)
	session.SignIn(testUser{id: 1, handle: "u1"})
	is.NoErr(s.Initialize(context.TODO()))

	want := proto.AffiliationChange{
		CompanyName: "Acme",
		Title:       "Managing Partner",
		WebsiteURL:  "acme.com",
	}
	_, err := s.Add(context.TODO(), want)
	is.NoErr(err)

	// A fresh synchronizer fetching the same roster sees the record.
	s2 := New(context.TODO(), remote, session)
	defer s2.Close() //nolint:errcheck
	is.NoErr(s2.Initialize(context.TODO()))

	affs := s2.Affiliations()
	is.Equal(len(affs), 1)
	is.Equal(affs[0].CompanyName, want.CompanyName)
	is.Equal(affs[0].Title, want.Title)
	is.Equal(affs[0].WebsiteURL, want.WebsiteURL)
}
