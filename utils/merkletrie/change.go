package merkletrie

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// Action values represent the kind of things a Change can represent:
// insertion, deletions or modifications of files.
type Action int

const (
	_ Action = iota
	// Insert represents a newly created file.
	Insert
	// Delete represents a removed file.
	Delete
	// Modify represents a modified file.
	Modify
)

// String returns the action as a human readable text.
func (a Action) String() string {
	switch a {
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	case Modify:
		return "Modify"
	default:
		panic(fmt.Sprintf("unsupported action: %d", a))
	}
}

// A Change value represents a detected change between two trees: the
// insertion, deletion or modification of a file. Renames are
// expressed as the Delete of the file at its old path plus the
// Insert of the file at its new path; combining the two into a
// single rename Change is the job of a higher-level rename detector,
// not of the merkletrie diff itself.
type Change struct {
	// From represents the state of the node before the change; it
	// is zero for insertions.
	From noder.Path
	// To represents the state of the node after the change; it is
	// zero for deletions.
	To noder.Path
}

var (
	// ErrEmptyFileName is returned by AddRecursiveInsert and
	// AddRecursiveDelete when they are given an empty path.
	ErrEmptyFileName = errors.New("empty filename in change")
)

// NewInsert returns a new Change representing the insertion of path.
func NewInsert(path noder.Path) Change { return Change{To: path} }

// NewDelete returns a new Change representing the deletion of path.
func NewDelete(path noder.Path) Change { return Change{From: path} }

// NewModify returns a new Change representing the modification of
// from into to.
func NewModify(from, to noder.Path) Change {
	return Change{
		From: from,
		To:   to,
	}
}

// Action is convenience method that returns what action (insert,
// delete or modify) this change represents.
func (c *Change) Action() (Action, error) {
	if c.From == nil && c.To == nil {
		return Action(0), fmt.Errorf("malformed change: empty from and to")
	}

	if c.From == nil {
		return Insert, nil
	}

	if c.To == nil {
		return Delete, nil
	}

	return Modify, nil
}

// String returns a single change in human readable form, using the
// short form "<Action path>".
func (c *Change) String() string {
	action, err := c.Action()
	if err != nil {
		panic(fmt.Errorf("malformed change: nil from and to"))
	}

	var path string
	if action == Delete {
		path = c.From.String()
	} else {
		path = c.To.String()
	}

	return fmt.Sprintf("<%s %s>", action, path)
}

// Changes is a collection of changes, typically produced by a diff
// between two trees.
type Changes []Change

// NewChanges returns an new, empty Changes value.
func NewChanges() Changes {
	return Changes{}
}

// AddRecursiveInsert adds a recursive insertion Change for the whole
// subtree rooted at path: if path is a leaf, a single Insert change
// is added; if it is a directory, one Insert change per leaf
// descendant is added instead.
func (l *Changes) AddRecursiveInsert(root noder.Path) error {
	return l.addRecursive(root, NewInsert)
}

// AddRecursiveDelete adds a recursive deletion Change for the whole
// subtree rooted at path.
func (l *Changes) AddRecursiveDelete(root noder.Path) error {
	return l.addRecursive(root, NewDelete)
}

func (l *Changes) addRecursive(root noder.Path, ctor func(noder.Path) Change) error {
	if len(root) == 0 {
		return ErrEmptyFileName
	}

	n, err := root.NumChildren()
	if err != nil {
		return err
	}

	if n == 0 {
		*l = append(*l, ctor(root))
		return nil
	}

	iter, err := NewIterFromPath(root)
	if err != nil {
		return err
	}

	for {
		current, err := iter.Step()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		nc, err := current.NumChildren()
		if err != nil {
			return err
		}

		if nc == 0 {
			*l = append(*l, ctor(current))
		}
	}

	return nil
}
