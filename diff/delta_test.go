package diff

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-git/wtsync/plumbing/filemode"
)

type DeltaSuite struct {
	suite.Suite
}

func TestDeltaSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(DeltaSuite))
}

func (s *DeltaSuite) TestStatusString() {
	s.Equal("added", Added.String())
	s.Equal("deleted", Deleted.String())
	s.Equal("renamed", Renamed.String())
	s.Equal("unknown", Status(127).String())
}

func (s *DeltaSuite) TestFlagsHas() {
	f := FlagBinary | FlagNotExactMatch
	s.True(f.Has(FlagBinary))
	s.True(f.Has(FlagNotExactMatch))
	s.False(f.Has(FlagRacySkip))
}

func (s *DeltaSuite) TestFileEntryIsZero() {
	s.True(FileEntry{}.IsZero())
	s.False(FileEntry{Path: "a"}.IsZero())
	s.False(FileEntry{Mode: filemode.Regular}.IsZero())
}

func (s *DeltaSuite) TestDeltaPath() {
	d := Delta{Status: Added, New: FileEntry{Path: "new"}, Old: FileEntry{Path: "old"}}
	s.Equal("new", d.Path())

	d = Delta{Status: Deleted, New: FileEntry{Path: "new"}, Old: FileEntry{Path: "old"}}
	s.Equal("old", d.Path())
}

func (s *DeltaSuite) TestDeltaListAddInternsAndSorts() {
	l := NewDeltaList()
	defer l.Release()

	l.Add(Delta{Status: Added, New: FileEntry{Path: "b"}})
	l.Add(Delta{Status: Added, New: FileEntry{Path: "a"}})

	s.Equal(2, l.Len())
	sort.Sort(l)
	s.Equal("a", l.Deltas[0].Path())
	s.Equal("b", l.Deltas[1].Path())
}

func (s *DeltaSuite) TestDeltaListRelease() {
	l := NewDeltaList()
	l.Add(Delta{Status: Added, New: FileEntry{Path: "a"}})
	l.Release()

	s.Nil(l.Deltas)
	s.Equal(0, l.Len())
}
