package attrs

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValueSuite struct {
	suite.Suite
}

func TestValueSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ValueSuite))
}

func (s *ValueSuite) TestSentinelsAreDistinct() {
	s.NotEqual(TRUE, FALSE)
	s.NotEqual(TRUE, UNSET)
	s.NotEqual(TRUE, NULL)
	s.NotEqual(FALSE, UNSET)
	s.NotEqual(FALSE, NULL)
	s.NotEqual(UNSET, NULL)
}

func (s *ValueSuite) TestSentinelsAreNotStrings() {
	s.False(TRUE.IsString())
	s.False(FALSE.IsString())
	s.False(UNSET.IsString())
	s.False(NULL.IsString())
}

func (s *ValueSuite) TestStringValue() {
	v := stringValue("utf-8")
	s.True(v.IsString())
	s.Equal("utf-8", v.String())
}

func (s *ValueSuite) TestStringPanicsOnSentinel() {
	s.Panics(func() { TRUE.String() })
	s.Panics(func() { NULL.String() })
}
