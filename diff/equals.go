package diff

import (
	"bytes"

	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// emptyNoderHash is the sentinel the filesystem and index noders report
// from Hash() for a directory: 24 zero bytes, carrying no content
// information. Tree noder directories report their OID and mode instead.
// Grounded on the teacher's own diffTreeIsEquals (worktree_status.go),
// generalized to optionally ignore file mode.
var emptyNoderHash = make([]byte, 24)

// buildEquals returns the merkletrie.Equals comparator DiffTree uses to
// decide whether to descend into, or skip, a matched pair of paths.
func buildEquals(opts Options) func(a, b noder.Hasher) bool {
	return func(a, b noder.Hasher) bool {
		hashA, hashB := a.Hash(), b.Hash()
		if bytes.Equal(hashA, emptyNoderHash) || bytes.Equal(hashB, emptyNoderHash) {
			return false
		}

		if !opts.IgnoreFilemode {
			return bytes.Equal(hashA, hashB)
		}

		pa, aok := a.(noder.Path)
		pb, bok := b.(noder.Path)
		if !aok || !bok {
			return bytes.Equal(hashA, hashB)
		}

		fia, aok := pa.Last().(fileInfoer)
		fib, bok := pb.Last().(fileInfoer)
		if !aok || !bok {
			return bytes.Equal(hashA, hashB)
		}

		oidA, _, _ := fia.FileInfo()
		oidB, _, _ := fib.FileInfo()
		return oidA.Equal(oidB)
	}
}
