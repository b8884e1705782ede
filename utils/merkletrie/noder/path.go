package noder

import (
	"bytes"
	"strings"
)

// Path values represent a noder and its ancestors. The root noder
// has an empty name, so its position in the path is not relevant.
type Path []Noder

func (p Path) String() string {
	var buf bytes.Buffer
	sep := ""
	for _, e := range p {
		_, _ = buf.WriteString(sep)
		_, _ = buf.WriteString(e.Name())
		sep = "/"
	}

	return buf.String()
}

// Name returns the name of the final noder in the path.
func (p Path) Name() string {
	return p[len(p)-1].Name()
}

// Hash returns the hash of the final noder in the path.
func (p Path) Hash() []byte {
	return p[len(p)-1].Hash()
}

// IsDir returns if the final noder in the path is a directory-like
// noder.
func (p Path) IsDir() bool {
	return p[len(p)-1].IsDir()
}

// Children returns the children of the final noder in the path.
func (p Path) Children() ([]Noder, error) {
	return p[len(p)-1].Children()
}

// NumChildren returns the number of children the final noder in the
// path has.
func (p Path) NumChildren() (int, error) {
	return p[len(p)-1].NumChildren()
}

func (p Path) Skip() bool {
	return p[len(p)-1].Skip()
}

// Last returns the last noder in the path.
func (p Path) Last() Noder {
	return p[len(p)-1]
}

// Compare compares paths by their component names, byte for byte:
// it does not normalize unicode, so names that look alike but use a
// different normalization form sort by their raw encoding, same as
// the underlying filesystem would order them.
func (p Path) Compare(other Path) int {
	clen := len(p)
	if len(other) < clen {
		clen = len(other)
	}

	for i := 0; i < clen; i++ {
		if cmp := strings.Compare(p[i].Name(), other[i].Name()); cmp != 0 {
			return cmp
		}
	}

	return len(p) - len(other)
}
