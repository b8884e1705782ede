package rename

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/go-git/wtsync/diff"
	"github.com/go-git/wtsync/odb"
)

// quickReject is the cheap first stage of the two-stage similarity metric
// (§4.E): a pair whose sizes differ enough that even a perfect overlap of
// the smaller file's bytes into the larger couldn't reach threshold is
// rejected without reading either blob's content.
func quickReject(sizeA, sizeB int64, threshold int) bool {
	if sizeA <= 0 && sizeB <= 0 {
		return threshold > 0
	}
	big, small := sizeA, sizeB
	if small > big {
		big, small = small, big
	}
	if big == 0 {
		return threshold > 0
	}
	maxScore := int(small * 200 / (big + small))
	return maxScore < threshold
}

// similarity is the expensive second stage: it reads both blobs, tokenizes
// them into a shared line-index space via diffmatchpatch.DiffLinesToChars
// (so identical lines in either file map to the same rune), and scores the
// pair as twice the byte length of lines present in both, over the
// combined byte length of both files — the "multiset of hashed line
// fragments" content signature (§4.E).
func similarity(db odb.ODB, a, b diff.FileEntry, opts Options) (int, error) {
	if a.OID.Equal(b.OID) && !a.OID.IsZero() {
		return 100, nil
	}

	contentA, err := readBlob(db, a)
	if err != nil {
		return 0, err
	}
	contentB, err := readBlob(db, b)
	if err != nil {
		return 0, err
	}

	if len(contentA) == 0 && len(contentB) == 0 {
		return 100, nil
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(string(contentA), string(contentB))

	countA := make(map[rune]int64)
	countB := make(map[rune]int64)
	for _, r := range chars1 {
		countA[r]++
	}
	for _, r := range chars2 {
		countB[r]++
	}

	var common, total int64
	for r, n := range countA {
		lineLen := int64(len(lineArray[r]))
		total += n * lineLen
		if m := countB[r]; m > 0 {
			shared := n
			if m < shared {
				shared = m
			}
			common += shared * lineLen
		}
	}
	for r, m := range countB {
		total += m * int64(len(lineArray[r]))
	}

	if total == 0 {
		return 100, nil
	}

	return int(common * 200 / total), nil
}

func readBlob(db odb.ODB, e diff.FileEntry) ([]byte, error) {
	if e.OID.IsZero() {
		return nil, nil
	}
	if db == nil {
		return nil, fmt.Errorf("rename: %s: no object database to read content for similarity scoring", e.Path)
	}
	data, _, err := db.Read(e.OID)
	if err != nil {
		return nil, fmt.Errorf("rename: reading %s: %w", e.Path, err)
	}
	return data, nil
}
