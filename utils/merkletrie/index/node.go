package index

import (
	"bytes"
	"path/filepath"

	"strings"

	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/plumbing/filemode"
	"github.com/go-git/wtsync/plumbing/format/index"
	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

func IsEquals(a, b noder.Hasher) bool {
	pathA := a.(noder.Path)
	pathB := b.(noder.Path)
	if pathA[len(pathA)-1].IsDir() || pathB[len(pathB)-1].IsDir() {
		return false
	}

	return bytes.Equal(a.Hash(), b.Hash())
}

// RootNodeOptions configures how a Node reports its hash.
type RootNodeOptions struct {
	// FileMode includes an entry's file mode in its hash, so a mode-only
	// change (e.g. gaining the executable bit) is detected as a
	// modification. Set to false to compare content only.
	FileMode bool
}

type Node struct {
	index   *index.Index
	parent  string
	name    string
	entry   index.Entry
	isDir   bool
	options RootNodeOptions
}

func NewRootNode(idx *index.Index) (*Node, error) {
	return NewRootNodeWithOptions(idx, RootNodeOptions{FileMode: true}), nil
}

// NewRootNodeWithOptions returns the root node of idx, rendering each
// entry's hash according to options.
func NewRootNodeWithOptions(idx *index.Index, options RootNodeOptions) *Node {
	return &Node{index: idx, isDir: true, options: options}
}

func (n *Node) String() string {
	return n.fullpath()
}

func (n *Node) Hash() []byte {
	if n.IsDir() {
		return make([]byte, 24)
	}

	if !n.options.FileMode {
		return n.entry.Hash.Bytes()
	}

	return append(n.entry.Hash.Bytes(), n.entry.Mode.Bytes()...)
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) IsDir() bool {
	return n.isDir
}

// FileInfo returns the indexed entry's OID, mode and recorded size (§3
// "File entry"). A directory node, which has no entry of its own, reports
// a zero OID, filemode.Dir and -1.
func (n *Node) FileInfo() (plumbing.OID, filemode.FileMode, int64) {
	if n.isDir {
		return plumbing.OID{}, filemode.Dir, -1
	}
	return n.entry.Hash, n.entry.Mode, int64(n.entry.Size)
}

func (n *Node) Children() ([]noder.Noder, error) {
	path := n.fullpath()
	dirs := make(map[string]bool)

	var c []noder.Noder
	for _, e := range n.index.Entries {
		if e.Name == path {
			continue
		}

		if e.SkipWorktree {
			continue
		}

		prefix := path
		if prefix != "" {
			prefix += "/"
		}

		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}

		name := e.Name[len(path):]
		if len(name) != 0 && name[0] == '/' {
			name = name[1:]
		}

		parts := strings.Split(name, "/")
		if len(parts) > 1 {
			dirs[parts[0]] = true
			continue
		}

		c = append(c, &Node{
			index:   n.index,
			parent:  path,
			name:    name,
			entry:   *e,
			options: n.options,
		})
	}

	for dir := range dirs {
		c = append(c, &Node{
			index:   n.index,
			parent:  path,
			name:    dir,
			isDir:   true,
			options: n.options,
		})

	}

	return c, nil
}

func (n *Node) NumChildren() (int, error) {
	files, err := n.Children()
	return len(files), err
}

func (n *Node) fullpath() string {
	return filepath.Join(n.parent, n.name)
}
