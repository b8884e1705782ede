// Package frame implements a data structure that keeps the sorted
// children of a merkle trie noder, easy to consume by an iterator.
package frame

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// A Frame is a collection of siblings in a merkle trie, sorted by
// name.
type Frame struct {
	nodes []noder.Noder
}

// New returns a frame for the children of the given noder.
func New(n noder.Noder) (*Frame, error) {
	children, err := n.Children()
	if err != nil {
		return nil, fmt.Errorf("cannot get noder children: %w", err)
	}

	nodes := make([]noder.Noder, len(children))
	copy(nodes, children)
	sort.Sort(byName(nodes))

	return &Frame{nodes: nodes}, nil
}

type byName []noder.Noder

func (a byName) Len() int      { return len(a) }
func (a byName) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byName) Less(i, j int) bool {
	return a[i].Name() < a[j].Name()
}

// String returns a string representation of the frame, similar to
// json, but using the nodes String() method to print each element.
func (f *Frame) String() string {
	var buf bytes.Buffer
	_, _ = buf.WriteString("[")
	sep := ""
	for _, n := range f.nodes {
		_, _ = buf.WriteString(sep)
		_, _ = buf.WriteString(fmt.Sprintf("%q", n.Name()))
		sep = ", "
	}
	_, _ = buf.WriteString("]")

	return buf.String()
}

// First returns the first noder in the frame without removing it.
// If the frame is empty, ok is false.
func (f *Frame) First() (first noder.Noder, ok bool) {
	if len(f.nodes) == 0 {
		return nil, false
	}

	return f.nodes[0], true
}

// Drop removes the first noder in the frame, if any.
func (f *Frame) Drop() {
	if len(f.nodes) == 0 {
		return
	}

	f.nodes = f.nodes[1:]
}

// Len returns the number of noders remaining in the frame.
func (f *Frame) Len() int {
	return len(f.nodes)
}
