package checkout

import "github.com/go-git/wtsync/diff"

// Kind is the action a single path resolves to once planning has compared
// the baseline-to-target delta against the real workdir state (§4.F
// per-path state machine: UNDECIDED -> plan -> one of these).
type Kind int

const (
	// NoAction means the workdir already matches what target wants, or
	// there was never a target change at this path to begin with.
	NoAction Kind = iota
	// Remove deletes the workdir entry with no replacement.
	Remove
	// Update writes target's content, creating the path if necessary.
	Update
	// RemoveThenUpdate removes the workdir entry (a typechange: e.g. a
	// symlink where a regular file must now exist) before writing target's
	// content in its place, in the same pass-1/pass-2 ordering as every
	// other Remove/Update.
	RemoveThenUpdate
	// DeferRemoveUpdate is RemoveThenUpdate's directory variant: an entire
	// subtree the workdir currently holds as a directory must be removed
	// before a single file can be written at that same path. Pass 1 leaves
	// it alone; the removal runs at the start of its own pass-2 turn, just
	// before the write.
	DeferRemoveUpdate
	// UpdateSubmodule synchronizes a submodule's checked-out commit to the
	// target's recorded OID in pass 3, after every blob has been written.
	UpdateSubmodule
	// Conflict means applying this path's action would destroy workdir
	// state the caller has not authorized overwriting (§4.F conflict
	// policy); present only in a Plan that opts.AllowConflicts approved.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NoAction:
		return "none"
	case Remove:
		return "remove"
	case Update:
		return "update"
	case RemoveThenUpdate:
		return "remove+update"
	case DeferRemoveUpdate:
		return "defer_remove+update"
	case UpdateSubmodule:
		return "update_submodule"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Action is the planned disposition of one path.
type Action struct {
	Kind Kind
	Path string

	// Baseline, Target and Workdir are nil when that view had nothing at
	// Path; when present they describe what Execute reads from (Target)
	// or must tolerate finding already there (Workdir).
	Baseline, Target, Workdir *diff.FileEntry

	// Reason records why a Conflict action exists, for the notify
	// callback; empty for every other Kind.
	Reason NotifyReason
}

// Plan is the full, already-computed set of per-path actions a checkout
// run will apply. Computing the whole plan before any mutation is what
// lets the conflict policy (§4.F) inspect every conflict before deciding
// whether to abort.
type Plan struct {
	Actions []Action

	// Conflicts lists the indexes into Actions whose Kind is Conflict, for
	// callers that want to report them without re-scanning.
	Conflicts []int
}

func entryPtr(e diff.FileEntry) *diff.FileEntry {
	if e.IsZero() {
		return nil
	}
	return &e
}
