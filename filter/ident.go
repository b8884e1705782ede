package filter

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/go-git/wtsync/attrs"
)

// AttrIdent is the attribute name that selects the identity/keyword
// filter.
const AttrIdent = "ident"

// IdentPriority runs after CRLF on ToODB and before it on ToWorktree
// (see CRLFPriority), so keyword expansion always sees text with LF
// line endings.
const IdentPriority = 10

var idPattern = regexp.MustCompile(`\$Id(?::[^$\n]*)?\$`)

// NewIdent returns the identity/keyword-expansion Filter (§4.B): on
// ToWorktree it expands "$Id$" to "$Id: <oid>$"; on ToODB it strips any
// such expansion back to the bare "$Id$" token.
func NewIdent() *Filter {
	return &Filter{
		Name:     "ident",
		Priority: IdentPriority,
		Requires: []AttrMatch{{Name: AttrIdent, Want: attrs.TRUE}},
		Stream:   identStream,
	}
}

func identStream(direction Direction, dst io.Writer, meta SourceMeta) (io.Writer, error) {
	return &identWriter{dst: dst, direction: direction, oid: meta.OID}, nil
}

type identWriter struct {
	dst       io.Writer
	direction Direction
	oid       string
	buf       bytes.Buffer
}

func (w *identWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *identWriter) Close() error {
	content := w.buf.Bytes()

	// ReplaceAll treats "$" in the replacement as a submatch reference,
	// so literal dollar signs must be doubled.
	var replacement []byte
	switch w.direction {
	case ToWorktree:
		replacement = []byte(fmt.Sprintf("$$Id: %s$$", w.oid))
	case ToODB:
		replacement = []byte("$$Id$$")
	}

	out := idPattern.ReplaceAll(content, replacement)
	if _, err := w.dst.Write(out); err != nil {
		return err
	}
	return closeDst(w.dst)
}
