package filter

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CRLFSuite struct {
	suite.Suite
}

func TestCRLFSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CRLFSuite))
}

func (s *CRLFSuite) apply(direction Direction, content string) string {
	f := NewCRLF()
	out, err := Apply([]*Filter{f}, direction, []byte(content), SourceMeta{Path: "a.txt"})
	s.Require().NoError(err)
	return string(out)
}

func (s *CRLFSuite) TestToWorktreeExpandsLFToCRLF() {
	s.Equal("a\r\nb\r\n", s.apply(ToWorktree, "a\nb\n"))
}

func (s *CRLFSuite) TestToODBNormalizesCRLFToLF() {
	s.Equal("a\nb\n", s.apply(ToODB, "a\r\nb\r\n"))
}

func (s *CRLFSuite) TestBinaryContentPassesThroughUnchanged() {
	content := "a\x00b\r\n"
	s.Equal(content, s.apply(ToWorktree, content))
}

func (s *CRLFSuite) TestFilterMetadata() {
	f := NewCRLF()
	s.Equal("crlf", f.Name)
	s.Equal(CRLFPriority, f.Priority)
}
