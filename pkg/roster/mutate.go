package roster

import (
	"context"
	"errors"

	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// Add validates the candidate, persists it, and inserts the stored record
// at the head of the mirror. The add form's dirty set is cleared on
// success. Nothing is inserted locally until the remote confirms.
func (s *Synchronizer) Add(ctx context.Context, change proto.AffiliationChange) (proto.Affiliation, error) {
	change = trimChange(change)
	if err := validateChange(change); err != nil {
		return proto.Affiliation{}, err
	}

	owner, gen, err := s.beginMutation(ctx, "")
	if err != nil {
		return proto.Affiliation{}, err
	}

	callCtx, cancel := s.callCtx()
	created, err := s.remote.CreateAffiliation(callCtx, owner, change)
	cancel()
	if err != nil {
		return proto.Affiliation{}, s.failMutation(owner, gen, err)
	}

	s.mtx.Lock()
	if s.generation != gen {
		s.mtx.Unlock()
		return proto.Affiliation{}, proto.ErrIdentityMismatch
	}
	s.affiliations = append([]proto.Affiliation{created}, s.affiliations...)
	s.saving = false
	s.lastErr = nil
	s.dirty = make(map[Field]struct{})
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)
	return created, nil
}

// Update validates the replacement fields, persists them, and replaces the
// matching record in place, keeping its position. The dirty set is cleared
// on success. A locally unknown id returns proto.ErrAffiliationNotFound
// without a remote call.
func (s *Synchronizer) Update(ctx context.Context, id string, change proto.AffiliationChange) (proto.Affiliation, error) {
	if id == "" {
		return proto.Affiliation{}, proto.ErrAffiliationNotFound
	}
	change = trimChange(change)
	if err := validateChange(change); err != nil {
		return proto.Affiliation{}, err
	}

	owner, gen, err := s.beginMutation(ctx, id)
	if err != nil {
		return proto.Affiliation{}, err
	}

	callCtx, cancel := s.callCtx()
	updated, err := s.remote.UpdateAffiliation(callCtx, owner, id, change)
	cancel()
	if err != nil {
		return proto.Affiliation{}, s.failMutation(owner, gen, err)
	}

	s.mtx.Lock()
	if s.generation != gen {
		s.mtx.Unlock()
		return proto.Affiliation{}, proto.ErrIdentityMismatch
	}
	for i := range s.affiliations {
		if s.affiliations[i].ID == id {
			s.affiliations[i] = updated
			break
		}
	}
	s.saving = false
	s.lastErr = nil
	s.dirty = make(map[Field]struct{})
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)
	return updated, nil
}

// Delete removes the affiliation remotely, then from the mirror. A locally
// unknown id returns proto.ErrAffiliationNotFound without a remote call.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if id == "" {
		return proto.ErrAffiliationNotFound
	}

	owner, gen, err := s.beginMutation(ctx, id)
	if err != nil {
		return err
	}

	callCtx, cancel := s.callCtx()
	err = s.remote.DeleteAffiliation(callCtx, owner, id)
	cancel()
	if err != nil {
		return s.failMutation(owner, gen, err)
	}

	s.mtx.Lock()
	if s.generation != gen {
		s.mtx.Unlock()
		return proto.ErrIdentityMismatch
	}
	affs := s.affiliations[:0]
	for _, aff := range s.affiliations {
		if aff.ID != id {
			affs = append(affs, aff)
		}
	}
	s.affiliations = affs
	s.saving = false
	s.lastErr = nil
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)
	return nil
}

// beginMutation resolves the signed-in user, verifies it matches the
// recorded owner, and flags the state as saving. A non-empty id must be
// present in the mirror; a missing one returns
// proto.ErrAffiliationNotFound before any state or remote activity.
func (s *Synchronizer) beginMutation(ctx context.Context, id string) (int64, uint64, error) {
	user, err := s.source.Current(ctx)
	if err != nil {
		return 0, 0, err
	}
	owner := user.ID()

	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return 0, 0, ErrClosed
	}
	if s.owner != owner {
		s.mtx.Unlock()
		return 0, 0, s.mismatch(ctx)
	}
	if id != "" && !s.hasLocked(id) {
		s.mtx.Unlock()
		return 0, 0, proto.ErrAffiliationNotFound
	}
	gen := s.generation
	s.saving = true
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)
	return owner, gen, nil
}

// failMutation records a remote failure in State.Err and returns it, so
// both observers and the caller see it. A mutation that outlived a reset
// leaves state untouched.
func (s *Synchronizer) failMutation(owner int64, gen uint64, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = proto.ErrTimeout
	}

	s.mtx.Lock()
	if s.generation != gen {
		s.mtx.Unlock()
		return proto.ErrIdentityMismatch
	}
	s.saving = false
	s.lastErr = err
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)
	s.logger.Error("error saving roster change", "owner", owner, "error", err)
	return err
}

// mismatch handles a mutation issued while the recorded owner differs from
// the signed-in user. The mirror is reset and reloaded for the new
// identity; the abandoned mutation reports proto.ErrIdentityMismatch
// without recording a user-facing error. Expected during account switches.
func (s *Synchronizer) mismatch(ctx context.Context) error {
	s.mtx.Lock()
	s.resetLocked()
	st := s.snapshotLocked()
	s.mtx.Unlock()

	s.notify(st)

	if err := s.Initialize(ctx); err != nil {
		s.logger.Error("error reinitializing after identity change", "error", err)
	}

	return proto.ErrIdentityMismatch
}

// hasLocked reports whether the mirror holds the given id. Callers hold
// s.mtx.
func (s *Synchronizer) hasLocked(id string) bool {
	for _, aff := range s.affiliations {
		if aff.ID == id {
			return true
		}
	}
	return false
}
