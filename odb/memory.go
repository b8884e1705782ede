package odb

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pjbgf/sha1cd"

	"github.com/go-git/wtsync/plumbing"
)

// object is one entry stored by MemODB.
type object struct {
	typ  ObjectType
	data []byte
}

// MemODB is an in-memory ODB double for tests: everything the real
// interface promises, backed by a map and sha1cd (a collision-detecting
// SHA-1, chosen over plain crypto/sha1 the way the teacher's transport
// tests exercise collision-hardened hashing). No part of the core other
// than this double ever imports a hash implementation.
type MemODB struct {
	objects map[plumbing.OID]object
}

// NewMemODB returns an empty in-memory ODB.
func NewMemODB() *MemODB {
	return &MemODB{objects: make(map[plumbing.OID]object)}
}

// Put stores data under the OID it would hash to and returns that OID,
// letting test fixtures populate the double the way a real repository's
// object writer would.
func (m *MemODB) Put(data []byte, typ ObjectType) (plumbing.OID, error) {
	oid, err := m.Hash(data, typ)
	if err != nil {
		return plumbing.ZeroOID, err
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[oid] = object{typ: typ, data: cp}
	return oid, nil
}

func (m *MemODB) Read(oid plumbing.OID) ([]byte, ObjectType, error) {
	obj, ok := m.objects[oid]
	if !ok {
		return nil, 0, fmt.Errorf("object %s: %w", oid, plumbing.ErrNotFound)
	}

	return obj.data, obj.typ, nil
}

func (m *MemODB) Header(oid plumbing.OID) (ObjectType, int64, error) {
	obj, ok := m.objects[oid]
	if !ok {
		return 0, 0, fmt.Errorf("object %s: %w", oid, plumbing.ErrNotFound)
	}

	return obj.typ, int64(len(obj.data)), nil
}

func (m *MemODB) Hash(data []byte, typ ObjectType) (plumbing.OID, error) {
	return m.HashReader(bytes.NewReader(data), int64(len(data)), typ)
}

func (m *MemODB) HashReader(r io.Reader, size int64, typ ObjectType) (plumbing.OID, error) {
	h := sha1cd.New()
	fmt.Fprintf(h, "%s %d\x00", typ, size)
	if _, err := io.Copy(h, r); err != nil {
		return plumbing.ZeroOID, err
	}

	oid, ok := plumbing.FromBytes(h.Sum(nil))
	if !ok {
		return plumbing.ZeroOID, fmt.Errorf("sha1cd: unexpected digest width")
	}

	return oid, nil
}
