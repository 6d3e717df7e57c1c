// Package roster keeps a local, observable mirror of one user's company
// affiliations synchronized with a remote store. The mirror resets itself
// whenever the signed-in identity changes so records recorded for one
// account can never be read through another.
package roster

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/venturelinkhq/venturelink/pkg/identity"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/utils"
)

// DefaultTimeout bounds each remote call when no option overrides it.
const DefaultTimeout = 15 * time.Second

// Remote is the affiliation store the synchronizer mirrors. Every call is
// scoped to the owning user, never by record id alone.
type Remote interface {
	// ListAffiliations returns all affiliations owned by the user,
	// newest first.
	ListAffiliations(ctx context.Context, owner int64) ([]proto.Affiliation, error)

	// CreateAffiliation persists a new affiliation and returns the stored
	// record with its server-assigned id and creation time.
	CreateAffiliation(ctx context.Context, owner int64, change proto.AffiliationChange) (proto.Affiliation, error)

	// UpdateAffiliation replaces the editable fields of an affiliation
	// and returns the stored record.
	UpdateAffiliation(ctx context.Context, owner int64, id string, change proto.AffiliationChange) (proto.Affiliation, error)

	// DeleteAffiliation removes an affiliation.
	DeleteAffiliation(ctx context.Context, owner int64, id string) error
}

// Synchronizer mirrors one user's affiliation roster. Consumers read
// through State, Affiliations, and Current; all writes go through the
// synchronizer itself.
type Synchronizer struct {
	ctx     context.Context
	cancel  context.CancelFunc
	remote  Remote
	source  identity.Source
	logger  *log.Logger
	timeout time.Duration

	mtx          sync.RWMutex
	status       Status
	owner        int64
	affiliations []proto.Affiliation
	loading      bool
	saving       bool
	initialized  bool
	lastErr      error
	dirty        map[Field]struct{}
	generation   uint64
	closed       bool

	group   singleflight.Group
	unsub   func()
	subs    map[int64]func(State)
	nextSub int64
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithTimeout bounds each remote call. Values <= 0 keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a Synchronizer mirroring the given remote for whoever the
// identity source resolves. It subscribes to identity changes immediately;
// Close detaches the subscription and cancels in-flight work.
func New(ctx context.Context, remote Remote, source identity.Source, opts ...Option) *Synchronizer {
	ctx, cancel := context.WithCancel(ctx)
	s := &Synchronizer{
		ctx:     ctx,
		cancel:  cancel,
		remote:  remote,
		source:  source,
		logger:  log.FromContext(ctx).WithPrefix("roster"),
		timeout: DefaultTimeout,
		status:  StatusUninitialized,
		dirty:   make(map[Field]struct{}),
		subs:    make(map[int64]func(State)),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.unsub = source.Subscribe(s.identityChanged)

	return s
}

// Close detaches the identity subscription and cancels in-flight remote
// calls. The synchronizer rejects further operations with ErrClosed.
func (s *Synchronizer) Close() error {
	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return nil
	}
	s.closed = true
	s.mtx.Unlock()

	if s.unsub != nil {
		s.unsub()
	}
	s.cancel()

	return nil
}

// State returns a snapshot of the synchronizer.
func (s *Synchronizer) State() State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.snapshotLocked()
}

// Affiliations returns the mirrored roster, newest first.
func (s *Synchronizer) Affiliations() []proto.Affiliation {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return append([]proto.Affiliation(nil), s.affiliations...)
}

// Current returns the affiliations whose title reads as an active role.
// Matching is case-insensitive.
func (s *Synchronizer) Current() []proto.Affiliation {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var affs []proto.Affiliation
	for _, aff := range s.affiliations {
		if utils.IsCurrentTitle(aff.Title) {
			affs = append(affs, aff)
		}
	}

	return affs
}

// MarkDirty records a form field as having unsaved local edits.
func (s *Synchronizer) MarkDirty(f Field) {
	s.mtx.Lock()
	s.dirty[f] = struct{}{}
	st := s.snapshotLocked()
	s.mtx.Unlock()
	s.notify(st)
}

// ClearDirty forgets all recorded unsaved edits.
func (s *Synchronizer) ClearDirty() {
	s.mtx.Lock()
	s.dirty = make(map[Field]struct{})
	st := s.snapshotLocked()
	s.mtx.Unlock()
	s.notify(st)
}

// Subscribe registers fn to run on every state change. The returned
// function cancels the subscription.
func (s *Synchronizer) Subscribe(fn func(State)) (cancel func()) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mtx.Lock()
		defer s.mtx.Unlock()
		delete(s.subs, id)
	}
}

// notify runs observer callbacks outside the state lock, each with its own
// copy of the snapshot.
func (s *Synchronizer) notify(st State) {
	s.mtx.RLock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mtx.RUnlock()

	for _, fn := range fns {
		fn(st.clone())
	}
}

// callCtx derives a bounded context for one remote call. The parent is the
// synchronizer's own context so teardown cancels in-flight calls.
func (s *Synchronizer) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.timeout)
}
