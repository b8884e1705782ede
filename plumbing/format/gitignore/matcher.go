package gitignore

// Matcher evaluates an ordered list of patterns against a path, applying
// later rules over earlier ones and honoring negation.
type Matcher interface {
	Match(path []string, isDir bool) bool
}

type matcher struct {
	patterns []Pattern
}

// NewMatcher returns a Matcher from a list of patterns in the precedence
// order described by the attribute resolver (§4.A): later patterns in the
// slice win over earlier ones.
func NewMatcher(patterns []Pattern) Matcher {
	return &matcher{patterns}
}

func (m *matcher) Match(path []string, isDir bool) bool {
	n := len(m.patterns)
	for i := n - 1; i >= 0; i-- {
		res := m.patterns[i].Match(path, isDir)
		if res == Exclude {
			return true
		} else if res == Include {
			return false
		}
	}
	return false
}
