package plumbing

import (
	"bytes"
	"encoding/hex"
	"sort"
)

// maxOIDSize is the width of the largest object identifier the core
// understands (SHA-256). Shorter hashes (SHA-1) are stored left-aligned
// and padded with zero bytes; Size reports the real width.
const maxOIDSize = 32

// SHA1Size and SHA256Size are the byte widths of the two hash families
// the core's external ODB collaborator (see package odb) may
// report through its header/hash functions. The core itself never hashes
// content; it only compares and stores the OIDs the ODB gives it.
const (
	SHA1Size   = 20
	SHA256Size = 32
)

// OID is an opaque, fixed-width content hash. Equality is bytewise and the
// zero value is the "unknown" sentinel (ZeroOID).
//
// The core never constructs an OID by hashing bytes itself; it only reads
// OIDs handed to it by the ODB collaborator (tree entries, index entries)
// or compares them.
type OID struct {
	size int
	sum  [maxOIDSize]byte
}

// ZeroOID is the sentinel "unknown" OID.
var ZeroOID OID

// FromHex parses a hexadecimal OID. The width is inferred from the string
// length: 40 hex chars -> SHA-1, 64 hex chars -> SHA-256. Any other length,
// or non-hex input, returns ok == false.
func FromHex(s string) (id OID, ok bool) {
	switch len(s) {
	case SHA1Size * 2:
		id.size = SHA1Size
	case SHA256Size * 2:
		id.size = SHA256Size
	default:
		return OID{}, false
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return OID{}, false
	}

	copy(id.sum[:], raw)
	return id, true
}

// FromBytes wraps a raw digest of a supported width. It returns ok == false
// for any other length.
func FromBytes(raw []byte) (id OID, ok bool) {
	switch len(raw) {
	case SHA1Size:
		id.size = SHA1Size
	case SHA256Size:
		id.size = SHA256Size
	default:
		return OID{}, false
	}

	copy(id.sum[:], raw)
	return id, true
}

// MustFromHex is FromHex for call sites (tests, fixtures) that already
// know the input is well-formed.
func MustFromHex(s string) OID {
	id, ok := FromHex(s)
	if !ok {
		panic("plumbing: invalid oid: " + s)
	}
	return id
}

// Size returns the byte width of the hash (0 for the zero value).
func (o OID) Size() int {
	return o.size
}

// IsZero reports whether this is the "unknown" sentinel.
func (o OID) IsZero() bool {
	return o.size == 0 && o.sum == [maxOIDSize]byte{}
}

// Bytes returns the raw digest, truncated to its real width.
func (o OID) Bytes() []byte {
	if o.size == 0 {
		return nil
	}
	out := make([]byte, o.size)
	copy(out, o.sum[:o.size])
	return out
}

// String returns the lowercase hexadecimal form.
func (o OID) String() string {
	if o.size == 0 {
		return ""
	}
	return hex.EncodeToString(o.sum[:o.size])
}

// Equal reports bytewise equality, including width.
func (o OID) Equal(other OID) bool {
	return o.size == other.size && bytes.Equal(o.sum[:o.size], other.sum[:o.size])
}

// Compare orders two OIDs by their raw bytes; used to keep delta lists and
// index entries sorted deterministically.
func (o OID) Compare(other OID) int {
	return bytes.Compare(o.sum[:o.size], other.sum[:other.size])
}

// HasPrefix reports whether the hex-decoded prefix matches the start of
// this OID's digest; used for abbreviated-OID lookups in callers.
func (o OID) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(o.sum[:o.size], prefix)
}

// OIDs is a sortable slice of OID, ascending by raw bytes.
type OIDs []OID

func (o OIDs) Len() int           { return len(o) }
func (o OIDs) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o OIDs) Less(i, j int) bool { return o[i].Compare(o[j]) < 0 }

// Sort sorts a slice of OID in place.
func Sort(o OIDs) { sort.Sort(o) }
