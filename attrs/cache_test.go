package attrs

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/suite"
)

type CacheSuite struct {
	suite.Suite
}

func TestCacheSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CacheSuite))
}

func writeFile(s *CacheSuite, fs billy.Filesystem, path, content string) {
	f, err := fs.Create(path)
	s.Require().NoError(err)
	_, err = f.Write([]byte(content))
	s.Require().NoError(err)
	s.Require().NoError(f.Close())
}

func (s *CacheSuite) TestGetParsesOnce() {
	fs := memfs.New()
	writeFile(s, fs, ".gitattributes", "* text")

	c := newFileCache[string]()
	calls := 0
	parse := func(f billy.File) (string, error) {
		calls++
		return "parsed", nil
	}

	v, err := c.get(fs, ".gitattributes", parse)
	s.Require().NoError(err)
	s.Equal("parsed", v)
	s.Equal(1, calls)

	v, err = c.get(fs, ".gitattributes", parse)
	s.Require().NoError(err)
	s.Equal("parsed", v)
	s.Equal(1, calls, "unchanged file should reuse the cached parse")
}

func (s *CacheSuite) TestGetMissingFileReturnsZeroNoError() {
	fs := memfs.New()
	c := newFileCache[string]()
	calls := 0
	parse := func(f billy.File) (string, error) {
		calls++
		return "parsed", nil
	}

	v, err := c.get(fs, "does-not-exist", parse)
	s.NoError(err)
	s.Equal("", v)
	s.Equal(0, calls)
}

func (s *CacheSuite) TestGetReparsesWhenSizeChanges() {
	fs := memfs.New()
	writeFile(s, fs, ".gitattributes", "* text")

	c := newFileCache[string]()
	calls := 0
	parse := func(f billy.File) (string, error) {
		calls++
		return "v", nil
	}

	_, err := c.get(fs, ".gitattributes", parse)
	s.Require().NoError(err)
	s.Equal(1, calls)

	writeFile(s, fs, ".gitattributes", "* text -diff")

	_, err = c.get(fs, ".gitattributes", parse)
	s.Require().NoError(err)
	s.Equal(2, calls, "content change must invalidate the cached parse")
}

func (s *CacheSuite) TestFlushForcesReparse() {
	fs := memfs.New()
	writeFile(s, fs, ".gitattributes", "* text")

	c := newFileCache[string]()
	calls := 0
	parse := func(f billy.File) (string, error) {
		calls++
		return "v", nil
	}

	_, err := c.get(fs, ".gitattributes", parse)
	s.Require().NoError(err)
	s.Equal(1, calls)

	c.flush()

	_, err = c.get(fs, ".gitattributes", parse)
	s.Require().NoError(err)
	s.Equal(2, calls)
}
