// Package treenoder adapts a tree object read through an odb.ODB into a
// merkletrie noder, so a recorded baseline (e.g. the tree HEAD points at)
// can be merge-joined against a workdir or index view with the same
// DiffTree used for those (§4.D).
package treenoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path"
	"sort"

	"github.com/go-git/wtsync/odb"
	"github.com/go-git/wtsync/plumbing"
	"github.com/go-git/wtsync/plumbing/filemode"
	"github.com/go-git/wtsync/utils/merkletrie/noder"
)

// Entry is one record of a tree object: a name, its mode and the OID of
// the blob, tree or gitlink it names.
type Entry struct {
	Name string
	Mode filemode.FileMode
	OID  plumbing.OID
}

// EncodeTree serializes entries into the byte form stored under a
// TreeObject OID. Entries are written in name order, each as a
// length-prefixed name, its mode and its OID, so decoding never needs to
// assume a fixed OID width.
func EncodeTree(entries []Entry) []byte {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	var lenBuf [4]byte
	for _, e := range sorted {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e.Name)))
		buf.Write(lenBuf[:])
		buf.WriteString(e.Name)
		binary.BigEndian.PutUint32(lenBuf[:], uint32(e.Mode))
		buf.Write(lenBuf[:])
		buf.WriteByte(byte(e.OID.Size()))
		buf.Write(e.OID.Bytes())
	}

	return buf.Bytes()
}

// DecodeTree parses the byte form EncodeTree produces.
func DecodeTree(data []byte) ([]Entry, error) {
	var entries []Entry
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("treenoder: truncated entry name length")
		}
		nameLen := binary.BigEndian.Uint32(data[:4])
		data = data[4:]

		if uint32(len(data)) < nameLen+4+1 {
			return nil, fmt.Errorf("treenoder: truncated entry")
		}
		name := string(data[:nameLen])
		data = data[nameLen:]

		mode := filemode.FileMode(binary.BigEndian.Uint32(data[:4]))
		data = data[4:]

		oidLen := int(data[0])
		data = data[1:]

		if len(data) < oidLen {
			return nil, fmt.Errorf("treenoder: truncated entry oid")
		}
		oid, ok := plumbing.FromBytes(data[:oidLen])
		if !ok {
			return nil, fmt.Errorf("treenoder: malformed oid width %d", oidLen)
		}
		data = data[oidLen:]

		entries = append(entries, Entry{Name: name, Mode: mode, OID: oid})
	}

	return entries, nil
}

// node is a read-only view of one tree, blob or gitlink entry, backed by
// an odb.ODB. Unlike the filesystem noder, it never has to compute a
// hash: every node already carries the OID the database recorded for it.
type node struct {
	db   odb.ODB
	oid  plumbing.OID
	mode filemode.FileMode
	name string
	path string

	entries []Entry
	loaded  bool
}

// NewRootNode returns the root node of the tree stored at oid.
func NewRootNode(db odb.ODB, oid plumbing.OID) noder.Noder {
	return &node{db: db, oid: oid, mode: filemode.Dir}
}

func (n *node) Hash() []byte {
	return append(n.oid.Bytes(), n.mode.Bytes()...)
}

func (n *node) Name() string { return n.name }

func (n *node) IsDir() bool { return n.mode == filemode.Dir }

func (n *node) Skip() bool { return false }

// FileInfo returns the entry's OID and mode as recorded in the tree, and
// -1 for size: a tree entry never carries a blob's size, only its OID and
// mode (§3 "File entry").
func (n *node) FileInfo() (plumbing.OID, filemode.FileMode, int64) {
	return n.oid, n.mode, -1
}

func (n *node) String() string { return n.path }

func (n *node) load() error {
	if n.loaded {
		return nil
	}
	n.loaded = true

	if !n.IsDir() {
		return nil
	}

	if n.oid.IsZero() {
		return nil
	}

	data, typ, err := n.db.Read(n.oid)
	if err != nil {
		return fmt.Errorf("treenoder: reading tree %s: %w", n.oid, err)
	}
	if typ != odb.TreeObject {
		return fmt.Errorf("treenoder: %s is a %s, not a tree", n.oid, typ)
	}

	entries, err := DecodeTree(data)
	if err != nil {
		return fmt.Errorf("treenoder: tree %s: %w", n.oid, err)
	}

	n.entries = entries
	return nil
}

func (n *node) Children() ([]noder.Noder, error) {
	if err := n.load(); err != nil {
		return nil, err
	}

	children := make([]noder.Noder, 0, len(n.entries))
	for _, e := range n.entries {
		children = append(children, &node{
			db:   n.db,
			oid:  e.OID,
			mode: e.Mode,
			name: e.Name,
			path: path.Join(n.path, e.Name),
		})
	}

	return children, nil
}

func (n *node) NumChildren() (int, error) {
	if err := n.load(); err != nil {
		return -1, err
	}

	return len(n.entries), nil
}

// IsEquals compares two tree-backed nodes by their stored OID and mode.
// Unlike a filesystem or index node, a tree node's directory entries are
// themselves content-addressed, so two equal subtree OIDs really are the
// same subtree and DiffTree can skip descending into them.
func IsEquals(a, b noder.Hasher) bool {
	return bytes.Equal(a.Hash(), b.Hash())
}
