package merkletrie

import (
	"fmt"
	"io"

	"github.com/go-git/wtsync/utils/merkletrie/internal/frame"
	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// Iter is a convenience type to walk the noders of a merkle trie in
// depth-first, name order. Every call to Next or Step returns the
// following noder: Next skips over the children of the noder it just
// returned, while Step descends into them (if any) before continuing
// with its siblings. The choice only matters for the call right after
// a directory-like noder was returned; once its children (or the
// decision to skip them) are resolved there is nothing left to decide.
type Iter struct {
	frameStack []*frame.Frame
	top        noder.Path
	// pending is the last noder returned whose descend/skip decision
	// has not been resolved yet.
	pending     noder.Noder
	pendingPath noder.Path
}

// NewIter returns a new Iter for root's children. If root is nil, the
// returned iterator behaves as if it had no children.
func NewIter(root noder.Noder) (*Iter, error) {
	if root == nil {
		return &Iter{}, nil
	}

	topFrame, err := frame.New(root)
	if err != nil {
		return nil, fmt.Errorf("error making iterator: %w", err)
	}

	return &Iter{frameStack: []*frame.Frame{topFrame}}, nil
}

// NewIterFromPath returns a new Iter for the children of the noder at
// the end of path.
func NewIterFromPath(path noder.Path) (*Iter, error) {
	topFrame, err := frame.New(path)
	if err != nil {
		return nil, fmt.Errorf("error making iterator: %w", err)
	}

	return &Iter{
		frameStack: []*frame.Frame{topFrame},
		top:        path,
	}, nil
}

// Next returns the next noder, not descending into the children of
// the noder returned by the previous call.
func (iter *Iter) Next() (noder.Path, error) {
	return iter.advance(false)
}

// Step returns the next noder, descending into the children of the
// noder returned by the previous call, if it was a directory.
func (iter *Iter) Step() (noder.Path, error) {
	return iter.advance(true)
}

func (iter *Iter) advance(descend bool) (noder.Path, error) {
	if iter.pending != nil {
		p := iter.pending
		path := iter.pendingPath
		iter.pending = nil
		iter.pendingPath = nil

		if descend && p.IsDir() {
			childFrame, err := frame.New(p)
			if err != nil {
				return nil, fmt.Errorf("cannot descend into %s: %w", p.Name(), err)
			}

			if childFrame.Len() != 0 {
				iter.frameStack = append(iter.frameStack, childFrame)
				iter.top = path
			}
		}
	}

	if len(iter.frameStack) == 0 {
		return nil, io.EOF
	}

	current := iter.frameStack[len(iter.frameStack)-1]

	first, ok := current.First()
	if !ok {
		iter.frameStack = iter.frameStack[:len(iter.frameStack)-1]
		if len(iter.top) != 0 {
			iter.top = iter.top[:len(iter.top)-1]
		}

		return iter.advance(descend)
	}

	current.Drop()

	path := iter.newPath(first)
	iter.pending = first
	iter.pendingPath = path

	return path, nil
}

func (iter *Iter) newPath(n noder.Noder) noder.Path {
	if len(iter.top) == 0 {
		return noder.Path{n}
	}

	path := make(noder.Path, len(iter.top), len(iter.top)+1)
	copy(path, iter.top)

	return append(path, n)
}
