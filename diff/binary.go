package diff

import (
	"bytes"

	"github.com/go-git/wtsync/odb"
	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/utils/convert"
)

// isBinary classifies a blob as binary (§4.D "Binary detection"): content
// at or above opts.maxSize() is binary without inspection; otherwise an
// 8KiB-window NUL-byte/printable-ratio heuristic (utils/convert.Stat)
// decides, unless opts.ForceText overrides it. size is the entry's
// declared length, used to short-circuit the size check without reading.
func isBinary(db odb.ODB, oid plumbing.OID, size int64, opts Options) (bool, error) {
	if opts.ForceText {
		return false, nil
	}
	if size >= 0 && size >= opts.maxSize() {
		return true, nil
	}
	if opts.SkipBinaryCheck {
		return false, nil
	}
	if oid.IsZero() || db == nil {
		return false, nil
	}

	data, _, err := db.Read(oid)
	if err != nil {
		return false, err
	}
	if int64(len(data)) >= opts.maxSize() {
		return true, nil
	}

	window := data
	const sniffWindow = 8 * 1024
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}

	stat, err := convert.GetStat(bytes.NewReader(window))
	if err != nil {
		return false, err
	}
	return stat.IsBinary(), nil
}
