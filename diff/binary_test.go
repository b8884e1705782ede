package diff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-git/wtsync/odb"
	"github.com/go-git/wtsync/plumbing"
)

type BinarySuite struct {
	suite.Suite
	db *odb.MemODB
}

func TestBinarySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BinarySuite))
}

func (s *BinarySuite) SetupTest() {
	s.db = odb.NewMemODB()
}

func (s *BinarySuite) put(data []byte) plumbing.OID {
	oid, err := s.db.Put(data, odb.BlobObject)
	s.Require().NoError(err)
	return oid
}

func (s *BinarySuite) TestForceTextAlwaysFalse() {
	oid := s.put(bytes.Repeat([]byte{0x00}, 100))
	bin, err := isBinary(s.db, oid, 100, Options{ForceText: true})
	s.NoError(err)
	s.False(bin)
}

func (s *BinarySuite) TestDeclaredSizeAboveMaxSizeShortCircuits() {
	bin, err := isBinary(nil, plumbing.ZeroOID, 1000, Options{MaxSize: 10})
	s.NoError(err)
	s.True(bin)
}

func (s *BinarySuite) TestSkipBinaryCheckTreatsSmallAsText() {
	bin, err := isBinary(nil, plumbing.ZeroOID, 5, Options{SkipBinaryCheck: true})
	s.NoError(err)
	s.False(bin)
}

func (s *BinarySuite) TestZeroOIDWithoutDBIsText() {
	bin, err := isBinary(nil, plumbing.ZeroOID, -1, Options{})
	s.NoError(err)
	s.False(bin)
}

func (s *BinarySuite) TestTextContentIsNotBinary() {
	oid := s.put([]byte("hello\nworld\n"))
	bin, err := isBinary(s.db, oid, 12, Options{})
	s.NoError(err)
	s.False(bin)
}

func (s *BinarySuite) TestNulByteContentIsBinary() {
	data := append([]byte("hello"), 0x00, 'w', 'o', 'r', 'l', 'd')
	oid := s.put(data)
	bin, err := isBinary(s.db, oid, int64(len(data)), Options{})
	s.NoError(err)
	s.True(bin)
}
