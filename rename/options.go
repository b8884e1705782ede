// Package rename implements the rename/copy finder (§4.E): matching
// Deleted and Added deltas from a diff.DeltaList by content similarity
// and folding the best matches back into Renamed or Copied deltas.
package rename

// Options configures one Detect call (§6 "Rename options").
type Options struct {
	// RenameThreshold is the minimum similarity score (0-100) a
	// delete/add pair must reach to be reported as a rename. 0 uses
	// DefaultRenameThreshold.
	RenameThreshold int

	// DetectCopies additionally reports Copied deltas: once a deleted
	// path's best match has been consumed as a rename, any other Added
	// path still similar enough to it is reported as a copy of it
	// instead of a second rename.
	DetectCopies bool

	// CopyThreshold is the minimum similarity score for a copy match. 0
	// reuses RenameThreshold.
	CopyThreshold int

	// BreakRewriteThreshold splits a Modified delta into a synthetic
	// delete+add pair before matching when the old and new content at
	// that same path are less similar to each other than this score,
	// letting a near-total rewrite be recognized as "this path's old
	// content moved elsewhere, and unrelated new content landed here"
	// rather than reported as one giant modification. 0 disables
	// break-rewrite detection entirely.
	BreakRewriteThreshold int

	// RenameLimit caps the number of delete*add comparisons Detect will
	// perform; exceeding it disables rename detection for the whole call
	// rather than silently considering a truncated subset (§4.E
	// determinism). 0 uses DefaultRenameLimit.
	RenameLimit int
}

const (
	DefaultRenameThreshold       = 50
	DefaultBreakRewriteThreshold = 60
	DefaultRenameLimit           = 1000
)

func (o Options) renameThreshold() int {
	if o.RenameThreshold > 0 {
		return o.RenameThreshold
	}
	return DefaultRenameThreshold
}

func (o Options) copyThreshold() int {
	if o.CopyThreshold > 0 {
		return o.CopyThreshold
	}
	return o.renameThreshold()
}

func (o Options) renameLimit() int {
	if o.RenameLimit > 0 {
		return o.RenameLimit
	}
	return DefaultRenameLimit
}
