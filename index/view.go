// Package index wraps the on-disk index format
// (plumbing/format/index) into the mutable staging-manifest view
// described by §3: an ordered set of paths, each carrying up to four
// stage slots (0 = merged, 1-3 = conflict stages), with O(log n)
// lookups by path.
package index

import (
	"fmt"
	"sort"

	rbt "github.com/emirpasic/gods/trees/redblacktree"

	fmtindex "github.com/go-git/wtsync/plumbing/format/index"
)

// normalStage is the stage slot a path occupies when it is fully
// merged, i.e. not a conflict. The on-disk format's Stage type reserves
// this as its zero value; AncestorMode/OurMode/TheirMode (1-3) are the
// conflict stages (§3 "Stage").
const normalStage fmtindex.Stage = 0

// ErrConflictExclusivity is returned by Set/View construction when an
// operation would leave a path with both a normal (stage 0) entry and a
// conflict-stage (1-3) entry at the same time, violating §3's conflict
// exclusivity invariant.
var ErrConflictExclusivity = fmt.Errorf("index: normal and conflict-stage entries cannot coexist for the same path")

// stageSlots holds, for a single path, at most one Entry per stage.
type stageSlots [4]*fmtindex.Entry // indexed by fmtindex.Stage value: 0, 1, 2, 3

func (s stageSlots) hasConflict() bool {
	return s[1] != nil || s[2] != nil || s[3] != nil
}

// View is the mutable, queryable index (§3 "Index view"). Entries are
// kept in a red-black tree keyed by path, giving ordered iteration and
// O(log n) point lookups without a hand-rolled sorted-slice/binsearch.
type View struct {
	tree *rbt.Tree
}

// NewView builds a View from the entries of a decoded on-disk Index,
// rejecting any path that would violate conflict exclusivity.
func NewView(idx *fmtindex.Index) (*View, error) {
	v := &View{tree: rbt.NewWithStringComparator()}

	for _, e := range idx.Entries {
		if err := v.put(e); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func (v *View) slotsFor(path string) *stageSlots {
	if raw, ok := v.tree.Get(path); ok {
		return raw.(*stageSlots)
	}
	s := &stageSlots{}
	v.tree.Put(path, s)
	return s
}

func (v *View) put(e *fmtindex.Entry) error {
	slots := v.slotsFor(e.Name)

	if e.Stage == normalStage && slots.hasConflict() {
		return fmt.Errorf("%w: %s", ErrConflictExclusivity, e.Name)
	}
	if e.Stage != normalStage && slots[normalStage] != nil {
		return fmt.Errorf("%w: %s", ErrConflictExclusivity, e.Name)
	}

	slots[e.Stage] = e
	return nil
}

// Set inserts or replaces e, enforcing conflict exclusivity: a stage-0
// entry is refused with ErrConflictExclusivity while the path has
// conflict stages, and a conflict-stage entry while the path has a
// stage-0 entry. Set never removes an entry of the other kind.
func (v *View) Set(e *fmtindex.Entry) error {
	return v.put(e)
}

// Remove deletes the entry at (path, stage), if any, returning it.
func (v *View) Remove(path string, stage fmtindex.Stage) *fmtindex.Entry {
	raw, ok := v.tree.Get(path)
	if !ok {
		return nil
	}
	slots := raw.(*stageSlots)
	e := slots[stage]
	slots[stage] = nil

	if *slots == (stageSlots{}) {
		v.tree.Remove(path)
	}

	return e
}

// Entry returns the stage-0 entry at path, if present.
func (v *View) Entry(path string) (*fmtindex.Entry, bool) {
	raw, ok := v.tree.Get(path)
	if !ok {
		return nil, false
	}
	e := raw.(*stageSlots)[normalStage]
	return e, e != nil
}

// Conflicted reports whether path currently has conflict-stage entries.
func (v *View) Conflicted(path string) bool {
	raw, ok := v.tree.Get(path)
	if !ok {
		return false
	}
	return raw.(*stageSlots).hasConflict()
}

// ConflictStages returns the (up to three) conflict-stage entries at
// path, indexed by stage (AncestorMode, OurMode, TheirMode).
func (v *View) ConflictStages(path string) map[fmtindex.Stage]*fmtindex.Entry {
	raw, ok := v.tree.Get(path)
	if !ok {
		return nil
	}
	slots := raw.(*stageSlots)

	out := make(map[fmtindex.Stage]*fmtindex.Entry)
	for _, st := range []fmtindex.Stage{fmtindex.AncestorMode, fmtindex.OurMode, fmtindex.TheirMode} {
		if e := slots[st]; e != nil {
			out[st] = e
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Len returns the number of distinct paths in the view.
func (v *View) Len() int { return v.tree.Size() }

// Paths returns every path in the view, sorted.
func (v *View) Paths() []string {
	keys := v.tree.Keys()
	paths := make([]string, len(keys))
	for i, k := range keys {
		paths[i] = k.(string)
	}
	return paths
}

// Entries returns every stage-0 entry in the view, sorted by path. Paths
// that only carry conflict stages are omitted.
func (v *View) Entries() []*fmtindex.Entry {
	var out []*fmtindex.Entry
	it := v.tree.Iterator()
	for it.Next() {
		if e := it.Value().(*stageSlots)[normalStage]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// ToFormat renders the view back into the on-disk Index shape, with
// entries sorted by path then stage, matching the order the on-disk
// format expects.
func (v *View) ToFormat() *fmtindex.Index {
	var entries []*fmtindex.Entry
	it := v.tree.Iterator()
	for it.Next() {
		slots := it.Value().(*stageSlots)
		for _, e := range slots {
			if e != nil {
				entries = append(entries, e)
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Stage < entries[j].Stage
	})

	return &fmtindex.Index{Entries: entries}
}
