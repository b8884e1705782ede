package merkletrie

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// Equals reports whether two matched noders (same name, same position in
// their respective trees) represent unmodified content. Comparing two
// directory noders should normally return false, forcing DiffTree to
// descend and compare their children instead of treating the whole
// subtree as a single opaque unit.
type Equals func(a, b noder.Hasher) bool

// DiffTree merge-joins the children of two noder trees in path order,
// producing the Insert/Delete/Modify changes between them. This is the
// noder-level primitive behind the view iterator (§4.C); the richer
// diff engine (§4.D) builds on it, adding typechange classification,
// ignore/untracked labelling and binary detection.
func DiffTree(from, to noder.Noder, equals Equals) (Changes, error) {
	changes := NewChanges()

	fromIter, err := NewIter(from)
	if err != nil {
		return nil, fmt.Errorf("cannot iterate origin tree: %w", err)
	}
	toIter, err := NewIter(to)
	if err != nil {
		return nil, fmt.Errorf("cannot iterate destination tree: %w", err)
	}

	advance := func(it *Iter, step bool) (noder.Path, error) {
		var p noder.Path
		var err error
		if step {
			p, err = it.Step()
		} else {
			p, err = it.Next()
		}
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return p, err
	}

	fromPath, err := advance(fromIter, false)
	if err != nil {
		return nil, err
	}
	toPath, err := advance(toIter, false)
	if err != nil {
		return nil, err
	}

	for fromPath != nil || toPath != nil {
		switch {
		case fromPath == nil:
			if err := changes.AddRecursiveInsert(toPath); err != nil {
				return nil, err
			}
			if toPath, err = advance(toIter, false); err != nil {
				return nil, err
			}
		case toPath == nil:
			if err := changes.AddRecursiveDelete(fromPath); err != nil {
				return nil, err
			}
			if fromPath, err = advance(fromIter, false); err != nil {
				return nil, err
			}
		default:
			switch cmp := fromPath.Compare(toPath); {
			case cmp == 0:
				switch {
				case equals(fromPath, toPath):
					if fromPath, err = advance(fromIter, false); err != nil {
						return nil, err
					}
					if toPath, err = advance(toIter, false); err != nil {
						return nil, err
					}
				case !fromPath.IsDir() && !toPath.IsDir():
					changes = append(changes, NewModify(fromPath, toPath))
					if fromPath, err = advance(fromIter, false); err != nil {
						return nil, err
					}
					if toPath, err = advance(toIter, false); err != nil {
						return nil, err
					}
				case fromPath.IsDir() != toPath.IsDir():
					// Same name, but a file on one side and a directory on
					// the other: there is nothing underneath the file side
					// to merge-join against, so report it as a full delete
					// of one subtree and a full insert of the other rather
					// than stepping into a side with no children.
					if err := changes.AddRecursiveDelete(fromPath); err != nil {
						return nil, err
					}
					if err := changes.AddRecursiveInsert(toPath); err != nil {
						return nil, err
					}
					if fromPath, err = advance(fromIter, false); err != nil {
						return nil, err
					}
					if toPath, err = advance(toIter, false); err != nil {
						return nil, err
					}
				default:
					if fromPath, err = advance(fromIter, true); err != nil {
						return nil, err
					}
					if toPath, err = advance(toIter, true); err != nil {
						return nil, err
					}
				}
			case cmp < 0:
				if err := changes.AddRecursiveDelete(fromPath); err != nil {
					return nil, err
				}
				if fromPath, err = advance(fromIter, false); err != nil {
					return nil, err
				}
			default:
				if err := changes.AddRecursiveInsert(toPath); err != nil {
					return nil, err
				}
				if toPath, err = advance(toIter, false); err != nil {
					return nil, err
				}
			}
		}
	}

	return changes, nil
}
