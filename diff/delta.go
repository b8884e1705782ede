// Package diff implements the three-way delta engine (§4.D): merge-joining
// two unified views (baseline tree, index or workdir) through the iterator
// built on utils/merkletrie, classifying every mismatch into a typed Delta
// and assembling the result into a DeltaList.
package diff

import (
	"github.com/go-git/wtsync/internal/pool"
	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/plumbing/filemode"
)

// Status is the classification of one Delta (§3 "Delta").
type Status int8

const (
	Unmodified Status = iota
	Added
	Deleted
	Modified
	Renamed
	Copied
	Typechange
	Untracked
	Ignored
	Unreadable
	Conflicted
)

func (s Status) String() string {
	switch s {
	case Unmodified:
		return "unmodified"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	case Renamed:
		return "renamed"
	case Copied:
		return "copied"
	case Typechange:
		return "typechange"
	case Untracked:
		return "untracked"
	case Ignored:
		return "ignored"
	case Unreadable:
		return "unreadable"
	case Conflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// Flags record secondary facts about a Delta that don't change its Status
// but affect how a caller (rename finder, checkout planner) should treat it.
type Flags uint8

const (
	// FlagBinary marks a Delta whose old or new content was classified as
	// binary by the 8KiB NUL-byte heuristic (§4.D "Binary detection").
	FlagBinary Flags = 1 << iota
	// FlagRacySkip marks a Modified delta that was short-circuited by
	// the racy-git stat optimisation without actually reading content
	// (§4.D "maybe_modified decision table").
	FlagRacySkip
	// FlagNotExactMatch is set on a Copied/Renamed delta whose Similarity
	// is below 100, so callers don't mistake it for an identical copy.
	FlagNotExactMatch
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// FileEntry is one side of a Delta: the state of a path in one of the two
// views being compared (§3 "File entry").
type FileEntry struct {
	Path string
	Mode filemode.FileMode
	OID  plumbing.OID
	// Size is the entry's size in bytes, or -1 when the side this entry
	// came from (typically a tree) doesn't record one.
	Size int64
}

// IsZero reports whether e represents "this side does not exist", the
// state of the old_file of an Added delta or the new_file of a Deleted one.
func (e FileEntry) IsZero() bool {
	return e.Path == "" && e.Mode == filemode.Empty && e.OID.IsZero()
}

// Delta is one detected difference between two views (§3 "Delta").
type Delta struct {
	Status     Status
	Old        FileEntry
	New        FileEntry
	Similarity int // 0-100, meaningful only for Renamed/Copied
	Flags      Flags
}

// Path returns the delta's most informative path: the new side's, unless
// it was deleted, in which case the old side's.
func (d Delta) Path() string {
	if d.Status == Deleted {
		return d.Old.Path
	}
	return d.New.Path
}

// DeltaList is an ordered collection of Delta values (§3 "Delta list"),
// sorted by Path. Its path strings are interned through a single pool so
// the whole list's path storage can be reclaimed in one Release call.
type DeltaList struct {
	Deltas []Delta
	pool   *pool.Strings
}

// NewDeltaList returns an empty list backed by its own path arena.
func NewDeltaList() *DeltaList {
	return &DeltaList{pool: pool.NewStrings()}
}

// intern copies e's path through the list's arena, returning a FileEntry
// whose Path is safe to keep independent of whatever buffer produced it.
func (l *DeltaList) intern(e FileEntry) FileEntry {
	e.Path = l.pool.Intern(e.Path)
	return e
}

// Add appends d to the list, interning both sides' paths.
func (l *DeltaList) Add(d Delta) {
	d.Old = l.intern(d.Old)
	d.New = l.intern(d.New)
	l.Deltas = append(l.Deltas, d)
}

// Release discards the list's path arena. Every Delta previously returned
// from this list must not be used afterward (§3 "Lifecycles").
func (l *DeltaList) Release() {
	l.pool.Reset()
	l.Deltas = nil
}

// Len implements sort.Interface.
func (l *DeltaList) Len() int { return len(l.Deltas) }

// Less implements sort.Interface, ordering by Path.
func (l *DeltaList) Less(i, j int) bool { return l.Deltas[i].Path() < l.Deltas[j].Path() }

// Swap implements sort.Interface.
func (l *DeltaList) Swap(i, j int) { l.Deltas[i], l.Deltas[j] = l.Deltas[j], l.Deltas[i] }
