// Package filter implements the to-worktree/to-odb byte transform
// pipeline (§4.B): an ordered, attribute-selected stack of filters that
// normalizes line endings, expands keyword strings, and may run
// user-registered transforms, in either direction.
package filter

import (
	"bytes"
	"io"

	"github.com/go-git/wtsync/attrs"
)

// Direction selects which way content is flowing through the pipeline.
type Direction int

const (
	// ToODB is the direction a filter runs when content is about to be
	// written to the object database (worktree representation ->
	// canonical representation).
	ToODB Direction = iota
	// ToWorktree is the reverse: canonical representation -> the form
	// that should be written to disk.
	ToWorktree
)

// SourceMeta carries the handful of values built-in filters need beyond
// the bytes themselves.
type SourceMeta struct {
	// Path is the repository-relative path the content belongs to.
	Path string
	// OID is the string rendering of the content's object id, used by
	// the identity/keyword filter on ToWorktree. Empty when unknown.
	OID string
}

// AttrMatch is one clause of a Filter's attribute-match spec (§3
// "Filter definition"). A Filter is selected for a path only when every
// one of its AttrMatch clauses is satisfied.
type AttrMatch struct {
	Name string
	// Want requires the resolved value to be pointer-equal to this
	// sentinel (attrs.TRUE, attrs.FALSE or attrs.UNSET).
	Want *attrs.Value
	// WantString requires the resolved value to be an explicit string
	// equal to this.
	WantString *string
	// Exclude requires the resolved value NOT to be pointer-equal to
	// this sentinel.
	Exclude *attrs.Value
}

func (m AttrMatch) satisfiedBy(values map[string]*attrs.Value) bool {
	v := values[m.Name]
	if v == nil {
		v = attrs.NULL
	}

	if m.Exclude != nil && v == m.Exclude {
		return false
	}
	if m.Want != nil && v != m.Want {
		return false
	}
	if m.WantString != nil {
		if !v.IsString() || v.String() != *m.WantString {
			return false
		}
	}

	return true
}

// StreamFunc wraps dst with a writer that applies the filter's transform
// to whatever is written into it, returning the wrapping writer or an
// error. A filter may inspect content at Close time and pass it through
// unchanged. A filter unable to stream may buffer everything internally
// and flush on Close — the fallback §4.B explicitly allows.
type StreamFunc func(direction Direction, dst io.Writer, meta SourceMeta) (io.Writer, error)

// Filter is a single registration: a pure record of function values and
// matching data, per §9's guidance to avoid a class hierarchy with
// virtual methods.
type Filter struct {
	Name     string
	Priority int
	Requires []AttrMatch
	Stream   StreamFunc
}

func (f *Filter) matches(values map[string]*attrs.Value) bool {
	for _, m := range f.Requires {
		if !m.satisfiedBy(values) {
			return false
		}
	}
	return true
}

// Chain wires filters into a single io.Writer that, when written to and
// then closed, applies every filter's transform in order and forwards
// the final result to dst. filters must already be in the order Apply
// should run them (registration order for ToODB, reversed for
// ToWorktree — see Load).
func Chain(filters []*Filter, direction Direction, dst io.Writer, meta SourceMeta) (io.Writer, error) {
	w := dst
	for i := len(filters) - 1; i >= 0; i-- {
		next, err := filters[i].Stream(direction, w, meta)
		if err != nil {
			return nil, err
		}
		w = next
	}
	return w, nil
}

// closeDst closes dst if it is itself a buffering Filter writer further
// down the chain, so a Close call cascades through every layer instead
// of flushing only the outermost one.
func closeDst(dst io.Writer) error {
	if c, ok := dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Apply runs filters over src in a single call, per §4.B's
// apply(list, src_bytes) -> dst_bytes contract. A filter that errors
// aborts the pipeline; the partial destination is discarded rather than
// returned.
func Apply(filters []*Filter, direction Direction, src []byte, meta SourceMeta) ([]byte, error) {
	var out bytes.Buffer

	w, err := Chain(filters, direction, &out, meta)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if c, ok := w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return nil, err
		}
	}

	return out.Bytes(), nil
}
