package diff

// Options configures one Diff call (§6 "Diff options").
type Options struct {
	// IncludeUnmodified adds an Unmodified Delta for every matched,
	// unchanged path instead of omitting it. Off by default: most callers
	// (status, checkout planning) only care about actual differences.
	IncludeUnmodified bool

	// IncludeIgnored adds an Ignored Delta for workdir paths the
	// Attribute/Ignore resolver excludes. RecurseIgnoredDirs descends into
	// an ignored directory and reports its leaves individually instead of
	// a single directory-level Ignored delta.
	IncludeIgnored     bool
	RecurseIgnoredDirs bool

	// IncludeUntracked adds an Untracked Delta for workdir paths present
	// in the new view but absent from both the old view and the ignore
	// resolver. RecurseUntrackedDirs mirrors RecurseIgnoredDirs.
	IncludeUntracked     bool
	RecurseUntrackedDirs bool

	// IncludeTypechange reports a Typechange delta when a path's entry
	// kind changes (e.g. file to symlink); without it the pair is reported
	// as a single Modified delta, not split into a delete plus an insert.
	// IncludeTypechangeTrees additionally reports a typechange when a file
	// turns into a directory; without it that change is reported as a
	// plain delete plus the directory's leaves as inserts. Only the
	// file-to-directory direction is collapsed: a directory that turns
	// into a file is always reported as deletes of its leaves plus an
	// insert of the file.
	IncludeTypechange      bool
	IncludeTypechangeTrees bool

	// IgnoreFilemode treats two entries with different file modes (but
	// otherwise equal content) as unmodified.
	IgnoreFilemode bool

	// IgnoreSubmodules controls whether a submodule gitlink whose recorded
	// OID differs from its checked-out commit is reported as Modified.
	IgnoreSubmodules bool

	// Reverse swaps Old and New in every produced Delta and inverts
	// Added/Deleted, as if the two input views had been passed in the
	// opposite order.
	Reverse bool

	// ForceText skips the binary-content heuristic and always treats
	// blobs as comparable text. SkipBinaryCheck skips reading content: a
	// blob at or above MaxSize is still treated as binary, every other
	// blob as text. MaxSize of 0 uses DefaultMaxSize.
	ForceText       bool
	SkipBinaryCheck bool
	MaxSize         int64

	// DisablePathspecMatch turns off glob-style pathspec interpretation,
	// treating every Pathspec entry as a literal path instead.
	DisablePathspecMatch bool

	// Pathspec restricts the comparison to paths matching any of these
	// patterns (or literal paths, with DisablePathspecMatch).
	Pathspec []string
}

// DefaultMaxSize is the binary-detection size ceiling (§4.D "Binary
// detection"): content at or above this size is classified binary without
// inspection, since reading it defeats the purpose of a cheap heuristic.
const DefaultMaxSize = 512 * 1024 * 1024

// maxSize returns the effective size ceiling for o.
func (o Options) maxSize() int64 {
	if o.MaxSize > 0 {
		return o.MaxSize
	}
	return DefaultMaxSize
}
