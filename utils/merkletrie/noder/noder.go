// Package noder provides an interface for defining nodes in a
// merkle trie, as well as some basic utility functions for operating
// on them.
package noder

import "io"

// Hasher interface is implemented by types that can tell you their
// hash.
type Hasher interface {
	Hash() []byte
}

// Noder interface is implemented by the elements of a Merkle Trie.
//
// There are two types of elements in a Merkle Trie:
//
// - file-like nodes: they cannot have children nodes; NumChildren
// returns 0 and Children returns no noders, both with a nil error.
//
// - directory-like nodes: file nodes cannot have an empty hash,
// while directory nodes could have it.
//
// Noders must allow diffing against other noders: comparing their
// hash and, if they are equal, skipping the diff of their children
// (that is, the directory, as a whole, is unmodified) is an
// important optimisation, and is the whole point of the merkle trie
// data structure.
type Noder interface {
	Hasher
	// Name returns the name of an element (relative, not its full
	// path).
	Name() string
	// IsDir returns true if the element is a directory-like noder.
	IsDir() bool
	// Children returns the children of the element. If the noder
	// is not a directory-like element, this method returns an
	// empty slice (the NoChildren variable) and a nil error.
	Children() ([]Noder, error)
	// NumChildren returns the number of children the current noder
	// has. It is the duty of the implementer to return an
	// efficient implementation, as this method will be called
	// frequently with the sole purpose of checking if the current
	// noder has children or not.
	NumChildren() (int, error)

	// Skip allows to skip comparison of nodes. This can be used to
	// skip comparison of nodes that can not change, like cache
	// entries in unmodified parts of the workdir.
	Skip() bool
}

// NoChildren represents an empty collection of Noders. To be
// returned by the Children method when a Noder is a file-like
// element.
var NoChildren = []Noder{}

// ErrNotDir is an error value for a noder that is not a directory. The
// noders in this module do not return it: file-like noders return
// NoChildren with a nil error.
var ErrNotDir = io.EOF
