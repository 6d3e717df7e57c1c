package roster

import (
	"sort"

	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// Status is the synchronizer's position in its identity-safety state
// machine.
type Status int

const (
	// StatusUninitialized means no roster has been loaded yet.
	StatusUninitialized Status = iota
	// StatusInitializing means the first load for an identity is in flight.
	StatusInitializing
	// StatusReady means the roster mirrors the owner's remote records.
	StatusReady
	// StatusResetting means recorded state is being cleared after an
	// identity change. The reset completes synchronously, so this status
	// is never observable from outside the synchronizer.
	StatusResetting
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitializing:
		return "initializing"
	case StatusReady:
		return "ready"
	case StatusResetting:
		return "resetting"
	default:
		return "unknown"
	}
}

// Field identifies one of the editable affiliation form fields.
type Field int

const (
	// FieldCompanyName is the company name field.
	FieldCompanyName Field = iota
	// FieldTitle is the role title field.
	FieldTitle
	// FieldWebsiteURL is the optional website field.
	FieldWebsiteURL
)

// String implements fmt.Stringer.
func (f Field) String() string {
	switch f {
	case FieldCompanyName:
		return "company_name"
	case FieldTitle:
		return "title"
	case FieldWebsiteURL:
		return "website_url"
	default:
		return "unknown"
	}
}

// State is a point-in-time snapshot of the synchronizer. Snapshots are
// copies, safe to hold after the synchronizer has moved on.
type State struct {
	// Status is the identity-safety machine status.
	Status Status
	// Owner is the user ID the mirrored records belong to. Zero when no
	// identity is recorded.
	Owner int64
	// Affiliations is the mirrored roster, newest first.
	Affiliations []proto.Affiliation
	// Loading reports an in-flight initial fetch.
	Loading bool
	// Saving reports an in-flight mutation.
	Saving bool
	// Initialized reports whether the first load completed.
	Initialized bool
	// Err is the last remote failure. Cleared on the next success.
	Err error
	// Dirty lists form fields with unsaved local edits.
	Dirty []Field
}

// clone returns a copy whose slices are independent of the receiver's.
func (st State) clone() State {
	st.Affiliations = append([]proto.Affiliation(nil), st.Affiliations...)
	st.Dirty = append([]Field(nil), st.Dirty...)
	return st
}

// snapshotLocked builds a State copy. Callers hold s.mtx.
func (s *Synchronizer) snapshotLocked() State {
	st := State{
		Status:      s.status,
		Owner:       s.owner,
		Loading:     s.loading,
		Saving:      s.saving,
		Initialized: s.initialized,
		Err:         s.lastErr,
	}

	st.Affiliations = append([]proto.Affiliation(nil), s.affiliations...)
	for f := range s.dirty {
		st.Dirty = append(st.Dirty, f)
	}
	sort.Slice(st.Dirty, func(i, j int) bool { return st.Dirty[i] < st.Dirty[j] })

	return st
}
