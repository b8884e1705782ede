// Package filesystem provides a merkletrie noder implementation for billy filesystems.
package filesystem

import (
	"bytes"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/go-git/wtsync/odb"
	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/plumbing/filemode"
	"github.com/go-git/wtsync/plumbing/format/index"
	"github.com/go-git/wtsync/utils/convert"
	"github.com/go-git/wtsync/utils/ioutil"
	"github.com/go-git/wtsync/utils/merkletrie/noder"
	"github.com/go-git/wtsync/utils/sync"
)

// emptyDirHash is the Hash() value every directory noder reports; it never
// indicates equality between two directories, since a directory's hash
// carries no content information and DiffTree must descend into it to find
// out what actually changed.
var emptyDirHash = make([]byte, 24)

// IsEquals compares two filesystem-backed nodes by their computed hash,
// treating any pair of directories (whose hash is always the all-zero
// sentinel) as unequal so DiffTree always descends into them.
func IsEquals(a, b noder.Hasher) bool {
	ah, bh := a.Hash(), b.Hash()
	if bytes.Equal(ah, emptyDirHash) || bytes.Equal(bh, emptyDirHash) {
		return false
	}
	return bytes.Equal(ah, bh)
}

var ignore = map[string]bool{
	".git": true,
}

// Options contains configuration for the filesystem node.
type Options struct {
	// AutoCRLF converts CRLF line endings in text files into LF line endings.
	AutoCRLF bool

	// Index is used to enable the metadata-first comparison optimization while
	// correctly handling the "racy git" condition. If no index is provided,
	// the function works without the optimization.
	Index *index.Index

	// ODB computes the OID a regular file or symlink's content would have,
	// via its to_odb filter output, whenever the racy-git shortcut does not
	// apply. The node never hashes content itself (§1 Non-goals); with ODB
	// nil a node whose hash can't be shortcut is left at plumbing.ZeroOID,
	// the documented "not yet hashed" state of a workdir entry (§3).
	ODB odb.ODB
}

// The node represents a file or a directory in a billy.Filesystem. It
// implements the interface noder.Noder of merkletrie package.
//
// This implementation implements a "standard" hash method being able to be
// compared with any other noder.Noder implementation inside of go-git.
type node struct {
	fs         billy.Filesystem
	submodules map[string]plumbing.OID
	idx        *index.Index
	idxMap     map[string]*index.Entry

	options *Options

	path     string
	hash     []byte
	oidVal   plumbing.OID
	modeVal  filemode.FileMode
	children []noder.Noder
	isDir    bool
	mode     os.FileMode
	size     int64
	modTime  time.Time
}

// FileInfo returns the entry's OID, file mode and size as diff (§4.D) and
// checkout (§4.F) need them, without forcing every caller through the
// concatenated Hash() encoding. Size is the workdir stat size; it is not
// adjusted for any to-worktree filter that would change the blob's length.
func (n *node) FileInfo() (plumbing.OID, filemode.FileMode, int64) {
	if n.hash == nil {
		n.calculateHash()
	}
	return n.oidVal, n.modeVal, n.size
}

// NewRootNode returns the root node based on a given billy.Filesystem.
//
// In order to provide the submodule hash status, a map[string]plumbing.OID
// should be provided where the key is the path of the submodule and the commit
// of the submodule HEAD
//
// Deprecated: Use NewRootNodeWithOptions instead for better performance.
// This function is kept for backward compatibility.
func NewRootNode(
	fs billy.Filesystem,
	submodules map[string]plumbing.OID,
) noder.Noder {
	return NewRootNodeWithOptions(fs, submodules, Options{Index: nil})
}

// NewRootNodeWithOptions returns the root node based on a given billy.Filesystem
// with options for CRLF handling and an index. Providing an index enables the
// metadata-first comparison optimization while correctly handling the "racy git"
// condition. If no index is provided, the function works without the optimization.
//
// The index's ModTime field is used to detect the racy git condition. When a file's
// mtime equals or is newer than the index ModTime, we must hash the file content
// even if other metadata matches, because the file may have been modified in the
// same second that the index was written.
//
// Reference: https://git-scm.com/docs/racy-git
func NewRootNodeWithOptions(
	fs billy.Filesystem,
	submodules map[string]plumbing.OID,
	options Options,
) noder.Noder {
	var idxMap map[string]*index.Entry

	if options.Index != nil {
		idxMap = make(map[string]*index.Entry, len(options.Index.Entries))
		for _, entry := range options.Index.Entries {
			idxMap[entry.Name] = entry
		}
	}

	return &node{
		fs:         fs,
		submodules: submodules,
		idx:        options.Index,
		idxMap:     idxMap,
		options:    &options,
		isDir:      true,
	}
}

// Hash the hash of a filesystem node is the result of concatenating the
// blob OID of the file's content and its file mode; that way the
// difftree algorithm will detect changes in the contents of files and also in
// their mode.
//
// Please note that the hash is calculated on first invocation of Hash(),
// meaning that it will not update when the underlying file changes
// between invocations.
//
// The hash of a directory is always a 24-bytes slice of zero values
func (n *node) Hash() []byte {
	if n.hash == nil {
		n.calculateHash()
	}
	return n.hash
}

func (n *node) Name() string {
	return path.Base(n.path)
}

func (n *node) IsDir() bool {
	return n.isDir
}

func (n *node) Skip() bool {
	return false
}

func (n *node) Children() ([]noder.Noder, error) {
	if err := n.calculateChildren(); err != nil {
		return nil, err
	}

	return n.children, nil
}

func (n *node) NumChildren() (int, error) {
	if err := n.calculateChildren(); err != nil {
		return -1, err
	}

	return len(n.children), nil
}

func (n *node) calculateChildren() error {
	if !n.IsDir() {
		return nil
	}

	if len(n.children) != 0 {
		return nil
	}

	files, err := n.fs.ReadDir(n.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, file := range files {
		if _, ok := ignore[file.Name()]; ok {
			continue
		}

		fi, err := file.Info()
		if err != nil {
			return err
		}
		if fi.Mode()&os.ModeSocket != 0 {
			continue
		}

		c, err := n.newChildNode(fi)
		if err != nil {
			return err
		}

		n.children = append(n.children, c)
	}

	return nil
}

func (n *node) newChildNode(file os.FileInfo) (*node, error) {
	path := path.Join(n.path, file.Name())

	node := &node{
		fs:         n.fs,
		submodules: n.submodules,
		idx:        n.idx,
		idxMap:     n.idxMap,
		options:    n.options,

		path:    path,
		isDir:   file.IsDir(),
		size:    file.Size(),
		mode:    file.Mode(),
		modTime: file.ModTime(),
	}

	if _, isSubmodule := n.submodules[path]; isSubmodule {
		node.isDir = false
	}

	return node, nil
}

func (n *node) calculateHash() {
	if n.isDir {
		n.hash = make([]byte, 24)
		n.modeVal = filemode.Dir
		return
	}
	mode, err := filemode.NewFromOSFileMode(n.mode)
	if err != nil {
		n.hash = plumbing.ZeroOID.Bytes()
		return
	}
	n.modeVal = mode

	if submoduleHash, isSubmodule := n.submodules[n.path]; isSubmodule {
		n.modeVal = filemode.Submodule
		n.oidVal = submoduleHash
		n.hash = append(submoduleHash.Bytes(), filemode.Submodule.Bytes()...)
		return
	}

	if n.idxMap != nil {
		if entry, ok := n.idxMap[n.path]; ok {
			if n.metadataMatches(entry) {
				n.oidVal = entry.Hash
				n.hash = append(entry.Hash.Bytes(), mode.Bytes()...)
				return
			}
		}
	}

	var oid plumbing.OID
	if n.mode&os.ModeSymlink != 0 {
		oid = n.doCalculateHashForSymlink()
	} else {
		oid = n.doCalculateHashForRegular()
	}
	n.oidVal = oid
	n.hash = append(oid.Bytes(), mode.Bytes()...)
}

func (n *node) metadataMatches(entry *index.Entry) bool {
	if entry == nil {
		return false
	}

	if uint32(n.size) != entry.Size {
		return false
	}

	if !n.modTime.IsZero() && !n.modTime.Equal(entry.ModifiedAt) {
		return false
	}

	mode, err := filemode.NewFromOSFileMode(n.mode)
	if err != nil {
		return false
	}

	if mode != entry.Mode {
		return false
	}

	if n.idx != nil && !n.idx.ModTime.IsZero() && !n.modTime.IsZero() {
		if !n.modTime.Before(n.idx.ModTime) {
			return false
		}
	}

	// Without a usable index ModTime we cannot run the racy-git check, so
	// metadata alone is not sufficient; fall through to content hashing.
	if n.idx == nil || n.idx.ModTime.IsZero() {
		return false
	}

	return true
}

// doCalculateHashForRegular returns the OID a regular file's to-odb
// filtered content would have. It never hashes anything itself: the actual
// digest is computed by the injected ODB collaborator, exactly as §4.D's
// maybe_modified decision table describes ("compute the new OID via the
// to_odb pipeline feeding the ODB hasher").
func (n *node) doCalculateHashForRegular() plumbing.OID {
	if n.options == nil || n.options.ODB == nil {
		return plumbing.ZeroOID
	}

	f, err := n.fs.Open(n.path)
	if err != nil {
		return plumbing.ZeroOID
	}
	defer func() { _ = f.Close() }()

	br := sync.GetBufioReader(f)
	defer sync.PutBufioReader(br)

	size := n.size
	var src io.Reader = br

	if n.options.AutoCRLF {
		stat, err := convert.GetStat(br)
		if err != nil {
			return plumbing.ZeroOID
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return plumbing.ZeroOID
		}
		br.Reset(f)

		if !stat.IsBinary() {
			size -= int64(stat.CRLF)

			pr, pw := io.Pipe()
			lf := convert.NewLFWriter(pw)
			go func() {
				_, err := ioutil.Copy(lf, br)
				pw.CloseWithError(err)
			}()
			src = pr
		}
	}

	oid, err := n.options.ODB.HashReader(src, size, odb.BlobObject)
	if err != nil {
		return plumbing.ZeroOID
	}

	return oid
}

func (n *node) doCalculateHashForSymlink() plumbing.OID {
	if n.options == nil || n.options.ODB == nil {
		return plumbing.ZeroOID
	}

	target, err := n.fs.Readlink(n.path)
	if err != nil {
		return plumbing.ZeroOID
	}

	oid, err := n.options.ODB.HashReader(strings.NewReader(target), int64(len(target)), odb.BlobObject)
	if err != nil {
		return plumbing.ZeroOID
	}

	return oid
}

func (n *node) String() string {
	return n.path
}
