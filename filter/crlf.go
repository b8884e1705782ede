package filter

import (
	"bytes"
	"io"

	"github.com/go-git/wtsync/attrs"
	"github.com/go-git/wtsync/utils/convert"
)

// Attribute names the CRLF filter consults, matching the teacher's own
// worktree-status CRLF handling (`text`, `eol`, `crlf`, `autocrlf`).
const (
	AttrText     = "text"
	AttrEOL      = "eol"
	AttrCRLF     = "crlf"
	AttrAutoCRLF = "autocrlf"
)

// CRLFPriority is low so CRLF normalization runs before identity
// expansion on ToODB (stripping keywords from already-LF-normalized
// bytes) and after it on ToWorktree (expanding keywords before line
// endings are converted for display).
const CRLFPriority = 0

// NewCRLF returns the CRLF-normalization Filter (§4.B). It is selected
// for any path whose "text" attribute is set ("text") or carries a value
// ("text=auto"); a path where it is unset, unspecified or absent is left
// alone. The actual conversion is still gated per-blob by a
// binary-content heuristic, since a path can be text-eligible without
// every blob under it being text.
func NewCRLF() *Filter {
	return &Filter{
		Name:     "crlf",
		Priority: CRLFPriority,
		Requires: []AttrMatch{
			{Name: AttrText, Exclude: attrs.FALSE},
			{Name: AttrText, Exclude: attrs.UNSET},
			{Name: AttrText, Exclude: attrs.NULL},
		},
		Stream: crlfStream,
	}
}

func crlfStream(direction Direction, dst io.Writer, _ SourceMeta) (io.Writer, error) {
	return &crlfWriter{dst: dst, direction: direction}, nil
}

// crlfWriter buffers everything written to it so the binary heuristic
// (§4.D) can inspect the whole blob before deciding whether to convert;
// streaming would only save memory, which this core does not promise.
type crlfWriter struct {
	dst       io.Writer
	direction Direction
	buf       bytes.Buffer
}

func (w *crlfWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *crlfWriter) Close() error {
	content := w.buf.Bytes()

	stat, err := convert.GetStat(bytes.NewReader(content))
	if err != nil {
		return err
	}
	if stat.IsBinary() {
		if _, err := w.dst.Write(content); err != nil {
			return err
		}
		return closeDst(w.dst)
	}

	switch w.direction {
	case ToWorktree:
		_, err = convert.NewCRLFWriter(w.dst).Write(content)
	case ToODB:
		_, err = convert.NewLFWriter(w.dst).Write(content)
	}
	if err != nil {
		return err
	}
	return closeDst(w.dst)
}
