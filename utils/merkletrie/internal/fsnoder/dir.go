package fsnoder

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"io"
	"sort"

	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

const (
	dirStartMark  = '('
	dirEndMark    = ')'
	dirElementSep = ' '
)

// dir values represent directory-like noders in a merkle trie, used by
// New to build fixture trees out of the compact string notation described
// on New.
type dir struct {
	name     string
	children []noder.Noder // sorted by name
	hash     []byte        // memoized
}

// newDir returns a noder representing a directory with the given
// children. Children must have distinct, non-empty names.
func newDir(name string, children []noder.Noder) (*dir, error) {
	sorted := make([]noder.Noder, len(children))
	copy(sorted, children)
	sort.Sort(byName(sorted))

	seen := make(map[string]bool, len(sorted))
	for _, c := range sorted {
		if c.Name() == "" {
			return nil, fmt.Errorf("dirs cannot have unnamed children")
		}
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicated child name: %s", c.Name())
		}
		seen[c.Name()] = true
	}

	return &dir{
		name:     name,
		children: sorted,
	}, nil
}

type byName []noder.Noder

func (a byName) Len() int           { return len(a) }
func (a byName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byName) Less(i, j int) bool { return a[i].Name() < a[j].Name() }

// The hash of a dir folds in the dirStartMark/dirEndMark pair and, for
// each child in name order, its name and its own hash; two empty dirs
// always hash the same regardless of name, and two dirs with identically
// named, identically hashed children hash the same regardless of their
// own name.
func (d *dir) Hash() []byte {
	if d.hash == nil {
		d.calculateHash()
	}

	return d.hash
}

func (d *dir) calculateHash() {
	h := fnv.New64a()
	h.Write([]byte{dirStartMark})
	for _, c := range d.children {
		io.WriteString(h, c.Name()) //nolint:errcheck
		h.Write(c.Hash())
	}
	h.Write([]byte{dirEndMark})

	d.hash = h.Sum(nil)
}

func (d *dir) Name() string {
	return d.name
}

func (d *dir) IsDir() bool {
	return true
}

func (d *dir) Children() ([]noder.Noder, error) {
	return d.children, nil
}

func (d *dir) NumChildren() (int, error) {
	return len(d.children), nil
}

func (d *dir) Skip() bool {
	return false
}

// String returns a string formatted as: name(child1 child2 ...), with
// children in name order.
func (d *dir) String() string {
	var buf bytes.Buffer
	buf.WriteString(d.name)
	buf.WriteRune(dirStartMark)

	sep := ""
	for _, c := range d.children {
		buf.WriteString(sep)
		buf.WriteString(fmt.Sprintf("%v", c))
		sep = string(dirElementSep)
	}

	buf.WriteRune(dirEndMark)

	return buf.String()
}
