package checkout

import (
	"sort"

	"github.com/go-git/wtsync/attrs"
	"github.com/go-git/wtsync/diff"
	"github.com/go-git/wtsync/odb"
	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/plumbing/filemode"
	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// wdDiffOptions is fixed, not derived from the caller's Options: planning
// needs to see every kind of workdir deviation from baseline, including
// ones a plain status report would normally filter out, so it always asks
// for untracked and ignored entries and keeps type clashes as a single
// delta instead of letting DiffTree recurse into a replaced subtree.
func wdDiffOptions(pathspec []string, disablePathspecMatch bool) diff.Options {
	return diff.Options{
		IncludeUntracked:       true,
		RecurseUntrackedDirs:   true,
		IncludeIgnored:         true,
		RecurseIgnoredDirs:     true,
		IncludeTypechange:      true,
		IncludeTypechangeTrees: true,
		Pathspec:               pathspec,
		DisablePathspecMatch:   disablePathspecMatch,
	}
}

// Plan compares targetDeltas (the caller-supplied baseline-to-target
// delta, typically diff.Diff followed by rename.Detect) against the real
// state of the workdir rooted at workdirRoot, and classifies each path
// per the four case families of §4.F: no-wd (workdir entry absent),
// with-wd (workdir entry present, matching kind), wd-blocker (a workdir
// entry of a structurally incompatible kind sits where baseline expected
// something else) and with-wd-dir (workdir holds a directory where a
// single file belongs).
func Plan(db odb.ODB, resolver *attrs.Resolver, subs odb.Submodules, baselineRoot, workdirRoot noder.Noder, targetDeltas *diff.DeltaList, opts Options) (*Plan, error) {
	wdOpts := wdDiffOptions(opts.Pathspec, opts.DisablePathspecMatch)
	wdDeltas, err := diff.Diff(db, resolver, subs, baselineRoot, workdirRoot, wdOpts)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]diff.Delta, len(wdDeltas.Deltas))
	for _, d := range wdDeltas.Deltas {
		byPath[d.Path()] = d
	}

	targets := expandRenames(targetDeltas)

	p := &Plan{}
	for _, td := range targets {
		wd, hasWD := byPath[td.Path()]
		var wdPtr *diff.Delta
		if hasWD {
			wdPtr = &wd
		}
		a := classify(td, wdPtr, opts)
		p.Actions = append(p.Actions, a)
		if a.Kind == Conflict {
			p.Conflicts = append(p.Conflicts, len(p.Actions)-1)
		}
	}

	if opts.RemoveUntracked || opts.RemoveIgnored {
		p.appendCleanup(wdDeltas, targets, opts)
	}

	if opts.UpdateSubmodules || opts.UpdateSubmodulesIfChanged {
		retargetSubmodules(p, opts)
	}

	sort.SliceStable(p.Actions, func(i, j int) bool { return p.Actions[i].Path < p.Actions[j].Path })
	// Conflicts were recorded against the pre-sort order; rebuild the index
	// list against the final order instead of trying to track the permutation.
	p.Conflicts = p.Conflicts[:0]
	for i, a := range p.Actions {
		if a.Kind == Conflict {
			p.Conflicts = append(p.Conflicts, i)
		}
	}

	if len(p.Conflicts) > 0 {
		for _, i := range p.Conflicts {
			a := p.Actions[i]
			if opts.Notify != nil {
				if nerr := opts.Notify(a.Reason, a.Path, a.Baseline, a.Target, a.Workdir); nerr != nil {
					return nil, nerr
				}
			}
		}
		if !opts.AllowConflicts {
			return nil, plumbing.NewConflictf("checkout: %d path(s) conflict with the workdir", len(p.Conflicts))
		}
	}

	return p, nil
}

// expandRenames turns every Renamed/Copied delta in list into the plain
// Deleted/Added (or Modified, for a rename landing back at a path already
// occupied by target) deltas that classify understands, since the
// planner only ever reasons about one path's own before/after state.
func expandRenames(list *diff.DeltaList) []diff.Delta {
	out := make([]diff.Delta, 0, len(list.Deltas))
	for _, d := range list.Deltas {
		switch d.Status {
		case diff.Renamed:
			out = append(out, diff.Delta{Status: diff.Deleted, Old: d.Old})
			out = append(out, diff.Delta{Status: diff.Added, New: d.New})
		case diff.Copied:
			out = append(out, diff.Delta{Status: diff.Added, New: d.New})
		default:
			out = append(out, d)
		}
	}
	return out
}

func isDir(e *diff.FileEntry) bool { return e != nil && e.Mode == filemode.Dir }

// classify decides the Action for one target delta td, given wd (the
// workdir's deviation from baseline at the same path, or nil when the
// workdir already matches baseline there).
func classify(td diff.Delta, wd *diff.Delta, opts Options) Action {
	baseline := entryPtr(td.Old)
	target := entryPtr(td.New)
	path := td.Path()

	if wd == nil {
		// Workdir matches baseline exactly at this path (clean): a create
		// from nothing needs SAFE_CREATE or better, everything else (an
		// ordinary update or removal of a path the workdir hasn't touched)
		// is always safe.
		switch td.Status {
		case diff.Added:
			if !opts.safeCreate() {
				return Action{Kind: Conflict, Path: path, Target: target, Reason: NotifyConflict}
			}
			return Action{Kind: Update, Path: path, Target: target}
		case diff.Deleted:
			return Action{Kind: Remove, Path: path, Baseline: baseline}
		case diff.Typechange:
			if isDir(baseline) != isDir(target) && isDir(target) {
				return Action{Kind: DeferRemoveUpdate, Path: path, Baseline: baseline, Target: target}
			}
			return Action{Kind: RemoveThenUpdate, Path: path, Baseline: baseline, Target: target}
		default: // Modified
			if opts.UpdateOnly && baseline == nil {
				return Action{Kind: NoAction, Path: path}
			}
			return Action{Kind: Update, Path: path, Baseline: baseline, Target: target}
		}
	}

	workdir := entryPtr(wd.New)
	if wd.Status == diff.Deleted {
		workdir = nil
	}

	switch wd.Status {
	case diff.Deleted:
		// The workdir has already removed what baseline recorded.
		if td.Status == diff.Deleted {
			return Action{Kind: NoAction, Path: path}
		}
		if opts.safeCreate() {
			return Action{Kind: Update, Path: path, Baseline: baseline, Target: target}
		}
		return Action{Kind: Conflict, Path: path, Baseline: baseline, Target: target, Reason: NotifyConflict}

	case diff.Untracked:
		// with-wd family: a workdir entry target doesn't know about sits at
		// a path target now wants to occupy or vacate.
		if td.Status == diff.Deleted {
			// Baseline had this path, target wants it gone, but the workdir
			// entry there is untracked (content no longer matches what
			// baseline recorded) — treat like any dirty with-wd case.
			if opts.force() {
				return Action{Kind: Remove, Path: path, Baseline: baseline, Workdir: workdir}
			}
			return Action{Kind: Conflict, Path: path, Baseline: baseline, Workdir: workdir, Reason: NotifyUntracked}
		}
		if opts.force() || opts.RemoveUntracked {
			return Action{Kind: Update, Path: path, Target: target, Workdir: workdir}
		}
		return Action{Kind: Conflict, Path: path, Target: target, Workdir: workdir, Reason: NotifyUntracked}

	case diff.Ignored:
		if td.Status == diff.Deleted {
			return Action{Kind: Remove, Path: path, Baseline: baseline, Workdir: workdir}
		}
		if opts.force() || opts.RemoveIgnored {
			return Action{Kind: Update, Path: path, Target: target, Workdir: workdir}
		}
		return Action{Kind: Conflict, Path: path, Target: target, Workdir: workdir, Reason: NotifyIgnored}

	case diff.Typechange:
		// wd-blocker or with-wd-dir: the workdir's kind at path doesn't
		// match what baseline expects there at all.
		if td.Status == diff.Deleted {
			if isDir(workdir) {
				return Action{Kind: DeferRemoveUpdate, Path: path, Baseline: baseline, Workdir: workdir}
			}
			if opts.force() {
				return Action{Kind: Remove, Path: path, Baseline: baseline, Workdir: workdir}
			}
			return Action{Kind: Conflict, Path: path, Baseline: baseline, Workdir: workdir, Reason: NotifyConflict}
		}
		if isDir(workdir) && !isDir(target) {
			return Action{Kind: DeferRemoveUpdate, Path: path, Baseline: baseline, Target: target, Workdir: workdir}
		}
		if opts.force() {
			return Action{Kind: RemoveThenUpdate, Path: path, Baseline: baseline, Target: target, Workdir: workdir}
		}
		return Action{Kind: Conflict, Path: path, Baseline: baseline, Target: target, Workdir: workdir, Reason: NotifyConflict}

	default: // Modified: workdir content differs from baseline (dirty)
		if td.Status == diff.Deleted {
			if opts.force() {
				return Action{Kind: Remove, Path: path, Baseline: baseline, Workdir: workdir}
			}
			return Action{Kind: Conflict, Path: path, Baseline: baseline, Workdir: workdir, Reason: NotifyDirty}
		}
		if opts.force() {
			return Action{Kind: Update, Path: path, Baseline: baseline, Target: target, Workdir: workdir}
		}
		return Action{Kind: Conflict, Path: path, Baseline: baseline, Target: target, Workdir: workdir, Reason: NotifyDirty}
	}
}

// appendCleanup plans removal of untracked/ignored workdir entries that
// target never touches at all, when RemoveUntracked/RemoveIgnored asked
// for the workdir to be swept clean as part of this checkout.
func (p *Plan) appendCleanup(wdDeltas *diff.DeltaList, handled []diff.Delta, opts Options) {
	seen := make(map[string]bool, len(handled))
	for _, d := range handled {
		seen[d.Path()] = true
	}

	for _, d := range wdDeltas.Deltas {
		if seen[d.Path()] {
			continue
		}
		switch d.Status {
		case diff.Untracked:
			if opts.RemoveUntracked {
				e := d.New
				p.Actions = append(p.Actions, Action{Kind: Remove, Path: d.Path(), Workdir: &e})
			}
		case diff.Ignored:
			if opts.RemoveIgnored {
				e := d.New
				p.Actions = append(p.Actions, Action{Kind: Remove, Path: d.Path(), Workdir: &e})
			}
		}
	}
}

// retargetSubmodules turns a plain Update into UpdateSubmodule wherever
// the target entry is a gitlink, so the executor's pass 3 (not pass 2)
// handles it: a submodule is synced to a commit through the submodule
// collaborator, never written as blob content.
func retargetSubmodules(p *Plan, opts Options) {
	for i, a := range p.Actions {
		if a.Target == nil || a.Target.Mode != filemode.Submodule {
			continue
		}
		switch a.Kind {
		case Update, RemoveThenUpdate, DeferRemoveUpdate:
			p.Actions[i].Kind = UpdateSubmodule
		}
	}
}
