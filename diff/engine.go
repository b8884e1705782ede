package diff

import (
	"fmt"
	"strings"

	"github.com/go-git/wtsync/attrs"
	"github.com/go-git/wtsync/odb"
	"github.com/go-git/wtsync/plumbing/filemode"
	"github.com/go-git/wtsync/utils/merkletrie"
	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// Diff compares the old and new views rooted at oldRoot/newRoot, merge-
// joining them through merkletrie.DiffTree and classifying every mismatch
// per the maybe_modified decision table (§4.D). db supplies blob content
// for the binary heuristic and may be nil when the caller only needs
// structural classification. resolver classifies new-side paths that have
// no counterpart in the old view as Untracked or Ignored instead of
// Added; pass nil when the new view is not a workdir (e.g. a tree-vs-index
// diff, where every Insert is a genuine addition). subs resolves
// submodule dirtiness for IGNORE_SUBMODULES and may be nil.
func Diff(db odb.ODB, resolver *attrs.Resolver, subs odb.Submodules, oldRoot, newRoot noder.Noder, opts Options) (*DeltaList, error) {
	equals := buildEquals(opts)
	if opts.IncludeUnmodified {
		// Force DiffTree to descend into, and individually match, every
		// path instead of skipping equal subtrees/leaves wholesale; the
		// real equality check happens once per matched leaf pair in
		// classifyModify, which is how an Unmodified Delta gets produced.
		equals = func(noder.Hasher, noder.Hasher) bool { return false }
	}

	changes, err := merkletrie.DiffTree(oldRoot, newRoot, equals)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}

	ps := newPathspec(opts)
	list := NewDeltaList()
	reportedDirs := make(map[string]bool)
	typechangeTree, absorbed := findTypechangeTrees(changes, opts)

	for i, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, fmt.Errorf("diff: %w", err)
		}

		switch action {
		case merkletrie.Insert:
			if absorbed[i] {
				continue
			}
			d, ok, err := classifyInsert(db, resolver, oldRoot, c.To, opts, reportedDirs)
			if err != nil {
				return nil, err
			}
			if ok && ps.match(d.New.Path, false) {
				list.Add(d)
			}
		case merkletrie.Delete:
			if typechangeTree[i] {
				old := entryOf(c.From)
				d := Delta{Status: Typechange, Old: old, New: FileEntry{Path: old.Path, Mode: filemode.Dir, Size: -1}}
				if ps.match(d.Path(), false) {
					list.Add(d)
				}
				continue
			}
			d := Delta{Status: Deleted, Old: entryOf(c.From)}
			if ps.match(d.Old.Path, false) {
				list.Add(d)
			}
		case merkletrie.Modify:
			d, ok, err := classifyModify(db, subs, c.From, c.To, opts)
			if err != nil {
				return nil, err
			}
			if ok && ps.match(d.Path(), false) {
				list.Add(d)
			}
		}
	}

	if opts.Reverse {
		reverseDeltas(list)
	}

	return list, nil
}

// findTypechangeTrees implements §4.D algorithm step 3: when
// opts.IncludeTypechangeTrees is set, a Delete immediately followed by the
// Insert changes of a new tree at the same path is a single path turning
// from a file into a directory, not an unrelated delete plus several
// unrelated adds. It returns, by index into changes, which Delete should
// be rewritten into a Typechange and which of the following Inserts are
// already absorbed into that one Delta (and so must not be classified or
// emitted on their own).
func findTypechangeTrees(changes merkletrie.Changes, opts Options) (typechangeTree, absorbed map[int]bool) {
	if !opts.IncludeTypechangeTrees {
		return nil, nil
	}

	typechangeTree = make(map[int]bool)
	absorbed = make(map[int]bool)

	for i, c := range changes {
		action, err := c.Action()
		if err != nil || action != merkletrie.Delete {
			continue
		}

		delPath := c.From.String()
		prefix := delPath + "/"
		found := false
		for j := i + 1; j < len(changes); j++ {
			act, err := changes[j].Action()
			if err != nil || act != merkletrie.Insert {
				break
			}
			if !strings.HasPrefix(changes[j].To.String(), prefix) {
				break
			}
			absorbed[j] = true
			found = true
		}
		if found {
			typechangeTree[i] = true
		}
	}

	return typechangeTree, absorbed
}

func reverseDeltas(list *DeltaList) {
	for i, d := range list.Deltas {
		r := d
		r.Old, r.New = d.New, d.Old
		switch d.Status {
		case Added:
			r.Status = Deleted
		case Deleted:
			r.Status = Added
		}
		list.Deltas[i] = r
	}
}

// classifyInsert turns a new-side-only Change into an Added, Untracked or
// Ignored Delta, or suppresses it entirely. ok is false when the caller's
// options mean this path (or the directory it collapses into) should not
// produce a Delta at all.
func classifyInsert(db odb.ODB, resolver *attrs.Resolver, oldRoot noder.Noder, to noder.Path, opts Options, reportedDirs map[string]bool) (Delta, bool, error) {
	entry := entryOf(to)

	if resolver == nil {
		return Delta{Status: Added, New: entry}, true, nil
	}

	ignored, err := resolver.IsIgnored(entry.Path, false)
	if err != nil {
		return Delta{}, false, fmt.Errorf("diff: %w", err)
	}

	if ignored {
		if !opts.IncludeIgnored {
			return Delta{}, false, nil
		}
		path := entry.Path
		if !opts.RecurseIgnoredDirs {
			shallow, err := shallowestAncestor(entry.Path, func(dir string) (bool, error) {
				return resolver.IsIgnored(dir, true)
			})
			if err != nil {
				return Delta{}, false, fmt.Errorf("diff: %w", err)
			}
			path = shallow
		}
		if path != entry.Path {
			if reportedDirs[path] {
				return Delta{}, false, nil
			}
			reportedDirs[path] = true
			return Delta{Status: Ignored, New: FileEntry{Path: path, Mode: filemode.Dir, Size: -1}}, true, nil
		}
		return Delta{Status: Ignored, New: entry}, true, nil
	}

	if !opts.IncludeUntracked {
		return Delta{}, false, nil
	}

	path := entry.Path
	if !opts.RecurseUntrackedDirs {
		shallow, err := shallowestAncestor(entry.Path, func(dir string) (bool, error) {
			return !existsInTree(oldRoot, splitPathspec(dir)), nil
		})
		if err != nil {
			return Delta{}, false, err
		}
		path = shallow
	}
	if path != entry.Path {
		if reportedDirs[path] {
			return Delta{}, false, nil
		}
		reportedDirs[path] = true
		return Delta{Status: Untracked, New: FileEntry{Path: path, Mode: filemode.Dir, Size: -1}}, true, nil
	}
	return Delta{Status: Untracked, New: entry}, true, nil
}

// entryKind buckets a mode into the four shapes a leaf entry may take, so
// a typechange (crossing buckets) can be told apart from an ordinary
// content or executable-bit modification (staying within one).
func entryKind(m filemode.FileMode) int {
	switch m {
	case filemode.Symlink:
		return 1
	case filemode.Submodule:
		return 2
	default:
		return 0 // Regular, Deprecated, Executable
	}
}

// classifyModify turns a same-path Change into a Delta. ok is false only
// when the pair turns out unmodified and the caller did not ask for it.
func classifyModify(db odb.ODB, subs odb.Submodules, from, to noder.Path, opts Options) (Delta, bool, error) {
	oldEntry := entryOf(from)
	newEntry := entryOf(to)

	if entryKind(oldEntry.Mode) != entryKind(newEntry.Mode) {
		if opts.IncludeTypechange {
			return Delta{Status: Typechange, Old: oldEntry, New: newEntry}, true, nil
		}
		// Without typechange support the pair is reported as a plain
		// modification rather than split back into delete+insert, since
		// DiffTree already merged them into one Change at this path.
		return Delta{Status: Modified, Old: oldEntry, New: newEntry}, true, nil
	}

	modeEqual := oldEntry.Mode == newEntry.Mode || opts.IgnoreFilemode
	oidEqual := oldEntry.OID.Equal(newEntry.OID)

	if entryKind(newEntry.Mode) == 2 { // submodule
		return classifySubmodule(subs, oldEntry, newEntry, opts)
	}

	if modeEqual && oidEqual {
		if !opts.IncludeUnmodified {
			return Delta{}, false, nil
		}
		return Delta{Status: Unmodified, Old: oldEntry, New: newEntry}, true, nil
	}

	d := Delta{Status: Modified, Old: oldEntry, New: newEntry}

	binOld, err := isBinary(db, oldEntry.OID, oldEntry.Size, opts)
	if err != nil {
		return Delta{}, false, fmt.Errorf("diff: %w", err)
	}
	binNew, err := isBinary(db, newEntry.OID, newEntry.Size, opts)
	if err != nil {
		return Delta{}, false, fmt.Errorf("diff: %w", err)
	}
	if binOld || binNew {
		d.Flags |= FlagBinary
	}

	return d, true, nil
}

func classifySubmodule(subs odb.Submodules, oldEntry, newEntry FileEntry, opts Options) (Delta, bool, error) {
	if opts.IgnoreSubmodules || subs == nil {
		if oldEntry.OID.Equal(newEntry.OID) {
			if !opts.IncludeUnmodified {
				return Delta{}, false, nil
			}
			return Delta{Status: Unmodified, Old: oldEntry, New: newEntry}, true, nil
		}
		return Delta{Status: Modified, Old: oldEntry, New: newEntry}, true, nil
	}

	sm, err := subs.Lookup(newEntry.Path)
	if err != nil {
		return Delta{}, false, fmt.Errorf("diff: submodule %s: %w", newEntry.Path, err)
	}

	if subs.Ignore(sm) == odb.IgnoreAll {
		if !opts.IncludeUnmodified {
			return Delta{}, false, nil
		}
		return Delta{Status: Unmodified, Old: oldEntry, New: newEntry}, true, nil
	}

	st, err := subs.Status(sm)
	if err != nil {
		return Delta{}, false, fmt.Errorf("diff: submodule %s: %w", newEntry.Path, err)
	}

	dirty := st.IsDirty
	if subs.Ignore(sm) == odb.IgnoreUntracked {
		dirty = false
	}

	if !st.Expected.Equal(st.Current) || st.NewCommits || dirty {
		return Delta{Status: Modified, Old: oldEntry, New: newEntry}, true, nil
	}

	if !opts.IncludeUnmodified {
		return Delta{}, false, nil
	}
	return Delta{Status: Unmodified, Old: oldEntry, New: newEntry}, true, nil
}

// shallowestAncestor walks from path's immediate parent upward while pred
// holds, returning the shallowest directory for which it does. It returns
// path itself when pred is already false for the immediate parent.
func shallowestAncestor(path string, pred func(dir string) (bool, error)) (string, error) {
	segs := splitPathspec(path)
	shallow := path
	for i := len(segs) - 1; i >= 1; i-- {
		dir := strings.Join(segs[:i], "/")
		ok, err := pred(dir)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		shallow = dir
	}
	return shallow, nil
}

// existsInTree reports whether root contains a node at the path named by
// segs. A nil root (no baseline, e.g. diffing against an unborn branch)
// never contains anything.
func existsInTree(root noder.Noder, segs []string) bool {
	if root == nil {
		return false
	}

	cur := root
	for _, seg := range segs {
		children, err := cur.Children()
		if err != nil {
			return false
		}
		var next noder.Noder
		for _, c := range children {
			if c.Name() == seg {
				next = c
				break
			}
		}
		if next == nil {
			return false
		}
		cur = next
	}
	return true
}
