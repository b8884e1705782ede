// Package odb defines the external collaborators the working-tree core
// consumes but never implements itself: the object database, the
// reference/HEAD store, and the submodule subsystem (§6). The core reads
// and compares object identifiers; it does not know how to compute one.
//
// This package also ships MemODB, an in-memory test double for the ODB
// interface, so the rest of the module can be exercised without a real
// on-disk object store; Refs and Submodules have no double here. MemODB is
// the only place in this module that a cryptographic hash function runs.
package odb

import (
	"io"

	"github.com/go-git/wtsync/plumbing"
)

// ObjectType distinguishes the four object kinds the ODB may report through
// Header or accept through Hash/HashReader.
type ObjectType int8

const (
	AnyObject ObjectType = iota
	BlobObject
	TreeObject
	CommitObject
	TagObject
)

func (t ObjectType) String() string {
	switch t {
	case BlobObject:
		return "blob"
	case TreeObject:
		return "tree"
	case CommitObject:
		return "commit"
	case TagObject:
		return "tag"
	default:
		return "any"
	}
}

// ODB is the external object database collaborator (§6). The core calls
// Read to recover blob content it needs to diff or filter, and calls Hash /
// HashReader whenever it must learn the OID a set of bytes would have
// without yet storing them (e.g. computing a workdir blob's OID to compare
// against an index entry).
type ODB interface {
	// Read returns the raw, already-filtered-to-odb content of oid along
	// with its declared type. NOTFOUND is reported as plumbing.ErrNotFound.
	Read(oid plumbing.OID) ([]byte, ObjectType, error)

	// Header returns an object's type and size without reading its full
	// content.
	Header(oid plumbing.OID) (ObjectType, int64, error)

	// Hash computes the OID data would have if stored as typ, without
	// storing it.
	Hash(data []byte, typ ObjectType) (plumbing.OID, error)

	// HashReader is the streaming form of Hash, used by the filter
	// pipeline's to_odb direction so a large blob need not be buffered
	// twice. size is the expected length of r after filtering.
	HashReader(r io.Reader, size int64, typ ObjectType) (plumbing.OID, error)
}

// Reference is a named pointer at an OID, or a symbolic alias of another
// reference name.
type Reference struct {
	Name   string
	Target plumbing.OID
	Symref string
}

// IsSymbolic reports whether this reference aliases another by name rather
// than pointing directly at an OID.
func (r Reference) IsSymbolic() bool { return r.Symref != "" }

// Refs is the external reference-store collaborator (§6). An unborn HEAD
// means the caller should treat the checkout baseline as an empty tree;
// this package defines no dedicated error value for that case.
type Refs interface {
	Lookup(name string) (Reference, error)
	// Peel resolves ref (following symbolic refs, bounded at MaxSymrefHops)
	// down to the OID of an object of kind typ — typically the tree attached
	// to a commit.
	Peel(ref Reference, typ ObjectType) (plumbing.OID, error)
}

// MaxSymrefHops bounds symbolic reference resolution (§9 cyclic-graph
// guard): a chain longer than this is reported as plumbing.ErrInvalid
// rather than looped forever.
const MaxSymrefHops = 5

// SubmoduleIgnore mirrors git's submodule.<name>.ignore policy.
type SubmoduleIgnore int8

const (
	IgnoreNone SubmoduleIgnore = iota
	IgnoreUntracked
	IgnoreDirty
	IgnoreAll
)

// SubmoduleStatus reports what Submodule.Status observes about one
// submodule working tree relative to its superproject's recorded OID.
type SubmoduleStatus struct {
	Current    plumbing.OID // commit currently checked out in the submodule
	Expected   plumbing.OID // commit recorded by the superproject
	IsDirty    bool         // submodule workdir has uncommitted changes
	NewCommits bool         // Current has commits Expected doesn't
}

// Submodule describes one gitlink entry as recorded by the superproject.
type Submodule struct {
	Path string
	OID  plumbing.OID
}

// Submodules is the external submodule-subsystem collaborator (§6). The
// core only ever consumes status information through it; it never manages
// a submodule's own repository.
type Submodules interface {
	Lookup(path string) (Submodule, error)
	Status(sm Submodule) (SubmoduleStatus, error)
	Ignore(sm Submodule) SubmoduleIgnore
}
