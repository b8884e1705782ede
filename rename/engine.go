package rename

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/go-git/wtsync/diff"
	"github.com/go-git/wtsync/odb"
)

type source struct {
	entry diff.FileEntry
}

type brokenPair struct {
	srcIdx, dstIdx int
	original       diff.Delta
}

type candidate struct {
	srcIdx, dstIdx, score int
}

// Detect scans list for Deleted/Added pairs (and, when
// opts.BreakRewriteThreshold is set, self-dissimilar Modified deltas) that
// are similar enough to be a rename or copy, per the pipeline in §4.E:
// mark rewrites, scan candidates up to the target limit, assign renames
// first, then copies from already-consumed sources. limitExceeded is true
// when the delete*add comparison count exceeded opts.RenameLimit, in
// which case list is returned unchanged — rename detection is skipped
// wholesale rather than run over a silently truncated subset.
func Detect(db odb.ODB, list *diff.DeltaList, opts Options) (result *diff.DeltaList, limitExceeded bool, err error) {
	var deletes []source
	var adds []diff.FileEntry
	var passthrough []diff.Delta
	var broken []brokenPair

	for _, d := range list.Deltas {
		switch d.Status {
		case diff.Deleted:
			deletes = append(deletes, source{entry: d.Old})
		case diff.Added:
			adds = append(adds, d.New)
		case diff.Modified:
			if opts.BreakRewriteThreshold > 0 {
				score, serr := similarity(db, d.Old, d.New, opts)
				if serr != nil {
					return nil, false, serr
				}
				if score < opts.BreakRewriteThreshold {
					srcIdx := len(deletes)
					dstIdx := len(adds)
					deletes = append(deletes, source{entry: d.Old})
					adds = append(adds, d.New)
					broken = append(broken, brokenPair{srcIdx: srcIdx, dstIdx: dstIdx, original: d})
					continue
				}
			}
			passthrough = append(passthrough, d)
		default:
			passthrough = append(passthrough, d)
		}
	}

	limit := opts.renameLimit()
	if len(deletes) > 0 && len(adds) > 0 && len(deletes)*len(adds) > limit {
		return list, true, nil
	}

	minThreshold := opts.renameThreshold()
	if opts.DetectCopies && opts.copyThreshold() < minThreshold {
		minThreshold = opts.copyThreshold()
	}

	var candidates []candidate
	for si, s := range deletes {
		for ai, a := range adds {
			if quickReject(s.entry.Size, a.Size, minThreshold) {
				continue
			}
			score, serr := similarity(db, s.entry, a, opts)
			if serr != nil {
				return nil, false, serr
			}
			if score < minThreshold {
				continue
			}
			candidates = append(candidates, candidate{srcIdx: si, dstIdx: ai, score: score})
		}
	}

	// Highest similarity first; ties break on the lower target (add)
	// index, then the lower source (delete) index, so the outcome never
	// depends on map iteration order or comparison scheduling (§4.E
	// "determinism").
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].dstIdx != candidates[j].dstIdx {
			return candidates[i].dstIdx < candidates[j].dstIdx
		}
		return candidates[i].srcIdx < candidates[j].srcIdx
	})

	matchedAdds := treeset.NewWithIntComparator()
	renamedSrc := treeset.NewWithIntComparator()
	anyMatchSrc := treeset.NewWithIntComparator()

	out := diff.NewDeltaList()

	for _, c := range candidates {
		if matchedAdds.Contains(c.dstIdx) {
			continue
		}

		if !renamedSrc.Contains(c.srcIdx) && c.score >= opts.renameThreshold() {
			out.Add(diff.Delta{
				Status:     diff.Renamed,
				Old:        deletes[c.srcIdx].entry,
				New:        adds[c.dstIdx],
				Similarity: c.score,
				Flags:      notExactFlag(c.score),
			})
			renamedSrc.Add(c.srcIdx)
			anyMatchSrc.Add(c.srcIdx)
			matchedAdds.Add(c.dstIdx)
			continue
		}

		if opts.DetectCopies && c.score >= opts.copyThreshold() {
			out.Add(diff.Delta{
				Status:     diff.Copied,
				Old:        deletes[c.srcIdx].entry,
				New:        adds[c.dstIdx],
				Similarity: c.score,
				Flags:      notExactFlag(c.score),
			})
			anyMatchSrc.Add(c.srcIdx)
			matchedAdds.Add(c.dstIdx)
		}
	}

	restoredSrc := make([]bool, len(deletes))
	restoredDst := make([]bool, len(adds))
	for _, bp := range broken {
		if !anyMatchSrc.Contains(bp.srcIdx) && !matchedAdds.Contains(bp.dstIdx) {
			out.Add(bp.original)
			restoredSrc[bp.srcIdx] = true
			restoredDst[bp.dstIdx] = true
		}
	}

	for si, s := range deletes {
		if anyMatchSrc.Contains(si) || restoredSrc[si] {
			continue
		}
		out.Add(diff.Delta{Status: diff.Deleted, Old: s.entry})
	}
	for ai, a := range adds {
		if matchedAdds.Contains(ai) || restoredDst[ai] {
			continue
		}
		out.Add(diff.Delta{Status: diff.Added, New: a})
	}
	for _, d := range passthrough {
		out.Add(d)
	}

	sort.Sort(out)
	return out, false, nil
}

// notExactFlag marks a match below perfect similarity, so a caller (e.g.
// checkout planning a copy) never mistakes a 90%-similar match for a
// byte-identical one.
func notExactFlag(score int) diff.Flags {
	if score < 100 {
		return diff.FlagNotExactMatch
	}
	return 0
}
