// Package checkout implements the checkout planner and executor (§4.F):
// a three-way scan merging the baseline-to-target delta with the actual
// state of the workdir produces a per-path Action, which a strict
// three-pass executor then applies (removes, then blob writes, then
// submodule updates).
package checkout

import "github.com/go-git/wtsync/diff"

// Strategy is the escalation ladder §6 describes: FORCE implies
// SAFE_CREATE implies SAFE.
type Strategy int

const (
	// Safe only updates paths whose workdir entry exactly matches the
	// baseline; anything else conflicts.
	Safe Strategy = iota
	// SafeCreate additionally creates paths the workdir is missing
	// entirely, even ones baseline never had either.
	SafeCreate
	// Force overwrites dirty or blocking workdir entries outright.
	Force
)

// NotifyReason classifies why the notify callback is being invoked
// (§6 "Callback surface").
type NotifyReason int

const (
	NotifyConflict NotifyReason = iota
	NotifyDirty
	NotifyUpdated
	NotifyUntracked
	NotifyIgnored
)

func (r NotifyReason) String() string {
	switch r {
	case NotifyConflict:
		return "conflict"
	case NotifyDirty:
		return "dirty"
	case NotifyUpdated:
		return "updated"
	case NotifyUntracked:
		return "untracked"
	case NotifyIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// NotifyFunc is called before an action is applied; a non-nil error aborts
// the run at the next delta boundary and is returned to the caller as is,
// without being wrapped in plumbing.ErrUser.
type NotifyFunc func(reason NotifyReason, path string, baseline, target, workdir *diff.FileEntry) error

// ProgressFunc is called after each action is applied.
type ProgressFunc func(path string, completed, total int)

// Options configures Plan and Execute (§6 "checkout" option group).
type Options struct {
	Strategy Strategy

	AllowConflicts  bool
	RemoveUntracked bool
	RemoveIgnored   bool
	UpdateOnly      bool
	DontUpdateIndex bool

	DisablePathspecMatch bool
	Pathspec             []string

	// SkipUnmerged, UseOurs and UseTheirs govern how a conflicted index
	// path (§3 "Stage") is resolved before planning looks at it; they
	// have no effect on a path without conflict stages.
	SkipUnmerged bool
	UseOurs      bool
	UseTheirs    bool

	UpdateSubmodules          bool
	UpdateSubmodulesIfChanged bool

	Notify   NotifyFunc
	Progress ProgressFunc
}

func (o Options) force() bool      { return o.Strategy >= Force }
func (o Options) safeCreate() bool { return o.Strategy >= SafeCreate }
