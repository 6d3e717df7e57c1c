package roster

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// Initialize loads the roster for the currently signed-in user. It is
// idempotent for an identity that is already loaded, and concurrent calls
// join a single in-flight fetch. With nobody signed in it is a no-op and
// the state stays uninitialized.
func (s *Synchronizer) Initialize(ctx context.Context) error {
	user, err := s.source.Current(ctx)
	if err != nil {
		if errors.Is(err, proto.ErrNotAuthenticated) {
			return nil
		}
		return err
	}
	owner := user.ID()

	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return ErrClosed
	}
	if s.owner != 0 && s.owner != owner {
		s.resetLocked()
	}
	if s.initialized && s.owner == owner {
		s.mtx.Unlock()
		return nil
	}
	joining := s.loading
	s.owner = owner
	s.status = StatusInitializing
	s.loading = true
	gen := s.generation
	st := s.snapshotLocked()
	s.mtx.Unlock()

	if !joining {
		s.notify(st)
	}

	// Keyed by owner and generation so concurrent calls join one fetch
	// while calls made after a reset start a fresh one.
	key := strconv.FormatInt(owner, 10) + "/" + strconv.FormatUint(gen, 10)
	_, err, _ = s.group.Do(key, func() (any, error) {
		return nil, s.fetch(owner, gen)
	})

	return err
}

// fetch loads the owner's records and installs them. Results from a fetch
// that outlived a reset are discarded, never installed.
func (s *Synchronizer) fetch(owner int64, gen uint64) error {
	s.mtx.RLock()
	done := s.initialized && s.owner == owner && s.generation == gen
	s.mtx.RUnlock()
	if done {
		return nil
	}

	ctx, cancel := s.callCtx()
	defer cancel()

	affs, err := s.remote.ListAffiliations(ctx, owner)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = proto.ErrTimeout
		}

		s.mtx.Lock()
		if s.generation != gen {
			s.mtx.Unlock()
			return proto.ErrIdentityMismatch
		}
		s.loading = false
		s.status = StatusUninitialized
		s.lastErr = err
		st := s.snapshotLocked()
		s.mtx.Unlock()

		s.notify(st)
		s.logger.Error("error loading roster", "owner", owner, "error", err)
		return err
	}

	// Keep newest first regardless of remote ordering.
	sort.SliceStable(affs, func(i, j int) bool {
		return affs[i].DateAdded.After(affs[j].DateAdded)
	})

	s.mtx.Lock()
	if s.generation != gen {
		s.mtx.Unlock()
		return proto.ErrIdentityMismatch
	}
	s.affiliations = affs
	s.loading = false
	s.initialized = true
	s.lastErr = nil
	s.status = StatusReady
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)
	return nil
}

// identityChanged runs on every sign-in or sign-out reported by the
// identity source. Any change away from the recorded owner clears the
// mirror before new data can load.
func (s *Synchronizer) identityChanged(user proto.User) {
	var owner int64
	if user != nil {
		owner = user.ID()
	}

	s.mtx.Lock()
	if owner == s.owner {
		s.mtx.Unlock()
		return
	}
	s.resetLocked()
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)
}

// resetLocked clears all mirrored state and invalidates in-flight fetches.
// Callers hold s.mtx. The reset runs synchronously under the lock, so a
// slow fetch for the previous owner can never install records afterwards.
func (s *Synchronizer) resetLocked() {
	s.status = StatusResetting
	s.generation++
	s.owner = 0
	s.affiliations = nil
	s.loading = false
	s.saving = false
	s.initialized = false
	s.lastErr = nil
	s.dirty = make(map[Field]struct{})
	s.status = StatusUninitialized
}
