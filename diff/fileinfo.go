package diff

import (
	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/plumbing/filemode"
	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// fileInfoer is implemented by every concrete noder this core produces
// (treenoder, the index noder, the filesystem noder): it exposes the OID,
// mode and size a Noder's opaque Hash() encoding bundles together, so the
// diff engine can classify a change without caring which view produced it.
type fileInfoer interface {
	FileInfo() (plumbing.OID, filemode.FileMode, int64)
}

// entryOf builds a FileEntry from one side of a merkletrie Change. A nil
// path (the zero side of an Insert or Delete) yields the zero FileEntry.
func entryOf(p noder.Path) FileEntry {
	if p == nil {
		return FileEntry{}
	}

	e := FileEntry{Path: p.String(), Size: -1}

	last := p.Last()
	if last.IsDir() {
		e.Mode = filemode.Dir
		return e
	}

	fi, ok := last.(fileInfoer)
	if !ok {
		return e
	}

	oid, mode, size := fi.FileInfo()
	e.OID = oid
	e.Mode = mode
	e.Size = size
	return e
}
