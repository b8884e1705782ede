package rename

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type OptionsSuite struct {
	suite.Suite
}

func TestOptionsSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OptionsSuite))
}

func (s *OptionsSuite) TestDefaults() {
	var o Options
	s.Equal(DefaultRenameThreshold, o.renameThreshold())
	s.Equal(DefaultRenameThreshold, o.copyThreshold())
	s.Equal(DefaultRenameLimit, o.renameLimit())
}

func (s *OptionsSuite) TestCopyThresholdFallsBackToRenameThreshold() {
	o := Options{RenameThreshold: 70}
	s.Equal(70, o.copyThreshold())
}

func (s *OptionsSuite) TestExplicitOverrides() {
	o := Options{RenameThreshold: 80, CopyThreshold: 90, RenameLimit: 5}
	s.Equal(80, o.renameThreshold())
	s.Equal(90, o.copyThreshold())
	s.Equal(5, o.renameLimit())
}
