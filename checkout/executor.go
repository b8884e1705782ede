package checkout

import (
	"bytes"
	"os"
	"path"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/go-git/wtsync/attrs"
	"github.com/go-git/wtsync/filter"
	"github.com/go-git/wtsync/index"
	"github.com/go-git/wtsync/odb"
	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/plumbing/filemode"
	fmtindex "github.com/go-git/wtsync/plumbing/format/index"
	"github.com/go-git/wtsync/utils/ioutil"
)

// syncer is the optional capability a real, os-backed billy.File usually
// implements but the base billy.File interface does not require; Execute
// uses it when present to flush a written blob to stable storage before
// the rename that makes it visible (§4.F "atomicity ... where supported").
type syncer interface {
	Sync() error
}

// Execute applies plan's actions to fs in the three-pass order §4.F
// requires: every Remove/RemoveThenUpdate is removed first, then every
// blob update is written (a DeferRemoveUpdate's directory is removed
// right before its own write), then submodules are synced,
// and only then — unless opts.DontUpdateIndex — is view updated to match.
// Execute assumes plan was produced by Plan against the same baseline and
// workdir and does not re-validate it; a Plan already rejected for
// unresolved conflicts is never passed here.
func Execute(fs billy.Filesystem, db odb.ODB, resolver *attrs.Resolver, subs odb.Submodules, view *index.View, plan *Plan, opts Options) error {
	actions := make([]Action, len(plan.Actions))
	copy(actions, plan.Actions)
	sort.Slice(actions, func(i, j int) bool { return actions[i].Path < actions[j].Path })

	total := 0
	for _, a := range actions {
		if a.Kind != NoAction && a.Kind != Conflict {
			total++
		}
	}
	completed := 0
	progress := func(p string) {
		completed++
		if opts.Progress != nil {
			opts.Progress(p, completed, total)
		}
	}

	// Pass 1: removes, deepest path first so a directory's children are
	// gone before the directory itself is asked to go. DeferRemoveUpdate
	// is deliberately excluded here: its directory is only removed in
	// pass 2, and only once it is known to be empty or FORCE is set
	// (§4.F "defer remove").
	removals := make([]Action, 0, len(actions))
	for _, a := range actions {
		switch a.Kind {
		case Remove, RemoveThenUpdate:
			removals = append(removals, a)
		}
	}
	sort.Slice(removals, func(i, j int) bool { return removals[i].Path > removals[j].Path })
	for _, a := range removals {
		if err := removeAll(fs, a.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		if a.Kind == Remove {
			if err := notify(opts, NotifyUpdated, a); err != nil {
				return err
			}
			progress(a.Path)
		}
	}

	// Pass 2: blob writes.
	for _, a := range actions {
		switch a.Kind {
		case Update, RemoveThenUpdate:
			if err := writeEntry(fs, db, resolver, a, opts); err != nil {
				return err
			}
			if err := notify(opts, NotifyUpdated, a); err != nil {
				return err
			}
			progress(a.Path)
		case DeferRemoveUpdate:
			if err := deferRemove(fs, a.Path, opts); err != nil {
				return err
			}
			if err := writeEntry(fs, db, resolver, a, opts); err != nil {
				return err
			}
			if err := notify(opts, NotifyUpdated, a); err != nil {
				return err
			}
			progress(a.Path)
		}
	}

	// Pass 3: submodules.
	for _, a := range actions {
		if a.Kind != UpdateSubmodule {
			continue
		}
		if err := syncSubmodule(subs, a); err != nil {
			return err
		}
		if err := notify(opts, NotifyUpdated, a); err != nil {
			return err
		}
		progress(a.Path)
	}

	if opts.DontUpdateIndex || view == nil {
		return nil
	}

	now := time.Now()
	for _, a := range actions {
		switch a.Kind {
		case Remove:
			view.Remove(a.Path, 0)
		case Update, RemoveThenUpdate, DeferRemoveUpdate, UpdateSubmodule:
			if a.Target == nil {
				continue
			}
			view.Set(&fmtindex.Entry{
				Name:       a.Path,
				Hash:       a.Target.OID,
				Mode:       a.Target.Mode,
				Size:       uint32(a.Target.Size),
				ModifiedAt: now,
				CreatedAt:  now,
			})
		}
	}

	return nil
}

func notify(opts Options, reason NotifyReason, a Action) error {
	if opts.Notify == nil {
		return nil
	}
	return opts.Notify(reason, a.Path, a.Baseline, a.Target, a.Workdir)
}

func syncSubmodule(subs odb.Submodules, a Action) error {
	if subs == nil || a.Target == nil {
		return nil
	}
	sm, err := subs.Lookup(a.Path)
	if err != nil {
		return err
	}
	// The submodule collaborator owns its own repository; the core's part
	// of a submodule checkout is only confirming the gitlink OID it just
	// wrote into the index matches what the collaborator now reports as
	// current, which Status already computes for the planner.
	if _, err := subs.Status(sm); err != nil {
		return err
	}
	return nil
}

func writeEntry(fs billy.Filesystem, db odb.ODB, resolver *attrs.Resolver, a Action, opts Options) error {
	if a.Target == nil {
		return nil
	}

	dir := path.Dir(a.Path)
	if dir != "." && dir != "/" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var content []byte
	if db != nil && !a.Target.OID.IsZero() {
		data, _, err := db.Read(a.Target.OID)
		if err != nil {
			return err
		}
		content = data
	}

	if resolver != nil {
		filters, err := filter.Load(resolver, a.Path, false, filter.ToWorktree)
		if err != nil {
			return err
		}
		content, err = filter.Apply(filters, filter.ToWorktree, content, filter.SourceMeta{
			Path: a.Path,
			OID:  a.Target.OID.String(),
		})
		if err != nil {
			return err
		}
	}

	if a.Target.Mode == filemode.Symlink {
		return fs.Symlink(string(content), a.Path)
	}

	return writeFileAtomic(fs, a.Path, content, a.Target.Mode)
}

// writeFileAtomic writes content to a fresh temp file in the same
// directory as path, flushes it (where the filesystem implementation
// supports Sync), and renames it into place — so a reader never observes
// a partially-written file at path, and a crash mid-write leaves the
// original content (or nothing) rather than a truncated blob (§4.F
// "atomicity ... where supported").
func writeFileAtomic(fs billy.Filesystem, p string, content []byte, mode filemode.FileMode) (err error) {
	dir := path.Dir(p)
	tmp, err := fs.TempFile(dir, ".wtsync-"+path.Base(p)+"-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			fs.Remove(tmpName)
		}
	}()

	if _, err = ioutil.Copy(tmp, bytes.NewReader(content)); err != nil {
		tmp.Close()
		return err
	}
	if s, ok := tmp.(syncer); ok {
		if err = s.Sync(); err != nil {
			tmp.Close()
			return err
		}
	}
	ioutil.CheckClose(tmp, &err)
	if err != nil {
		return err
	}

	if err = fs.Rename(tmpName, p); err != nil {
		return err
	}

	if chfs, ok := fs.(interface {
		Chmod(name string, mode os.FileMode) error
	}); ok && mode == filemode.Executable {
		return chfs.Chmod(p, 0o755)
	}

	return nil
}

// deferRemove clears the way for a DeferRemoveUpdate's blob write:
// baseline's regular-path removals have already run in pass 1, so
// whatever the directory at path still holds is content the workdir
// itself introduced. An already-empty directory (every tracked child
// removed, nothing untracked left behind) is pruned unconditionally;
// a non-empty one is only force-removed when opts.force(), and
// otherwise fails the whole run rather than silently destroying
// untracked content (§4.F "defer remove", spec scenario S6).
func deferRemove(fs billy.Filesystem, p string, opts Options) error {
	info, err := fs.Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return removeAll(fs, p)
	}

	children, err := fs.ReadDir(p)
	if err != nil {
		return err
	}
	if len(children) > 0 && !opts.force() {
		return plumbing.NewConflictf("checkout: %s: directory not empty, refusing to replace with a file without FORCE", p)
	}

	return removeAll(fs, p)
}

// removeAll deletes path, recursing through fs.ReadDir when it names a
// directory: billy's Remove contract (like os.Remove's) only guarantees
// removing a single empty entry.
func removeAll(fs billy.Filesystem, p string) error {
	info, err := fs.Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		return fs.Remove(p)
	}

	children, err := fs.ReadDir(p)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := removeAll(fs, fs.Join(p, c.Name())); err != nil {
			return err
		}
	}
	return fs.Remove(p)
}
