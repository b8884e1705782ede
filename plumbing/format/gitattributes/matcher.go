package gitattributes

// Matcher evaluates a set of gitattributes rules against a path,
// returning the effective set of attributes assigned to it.
type Matcher interface {
	// Match returns the attributes that apply to path, keyed by
	// attribute name, and whether any rule matched at all. isDir
	// may be nil when the caller doesn't know or care whether path
	// names a directory.
	Match(path []string, isDir *bool) (map[string]Attribute, bool)
}

type matcher struct {
	macros  map[string][]Attribute
	matches []MatchAttribute
}

// NewMatcher builds a Matcher from mas, in the precedence order
// described by the attribute resolver (§4.A): earlier entries in the
// slice win over later ones, so the resolver passes the nearest
// directory's rules first. Macro definitions ("[attr]name ...") are kept
// aside and expanded wherever their name is later used as a plain
// (set, unprefixed) attribute token.
func NewMatcher(mas []MatchAttribute) Matcher {
	m := &matcher{macros: map[string][]Attribute{}}

	for _, ma := range mas {
		if ma.Pattern == nil {
			m.macros[ma.Name] = ma.Attributes
			continue
		}

		m.matches = append(m.matches, ma)
	}

	return m
}

func (m *matcher) Match(path []string, _ *bool) (map[string]Attribute, bool) {
	result := make(map[string]Attribute)
	matched := false

	for _, ma := range m.matches {
		if !ma.Pattern.Match(path) {
			continue
		}

		matched = true

		local := make(map[string]Attribute)
		for _, attr := range ma.Attributes {
			m.expand(local, attr)
		}

		for k, v := range local {
			if _, exists := result[k]; !exists {
				result[k] = v
			}
		}
	}

	return result, matched
}

// expand assigns attr into local, substituting a macro's own
// attribute list whenever attr names a macro and is used in its
// plain (set) form; later tokens in the same rule still override
// whatever came before, including a macro's own expansion.
func (m *matcher) expand(local map[string]Attribute, attr Attribute) {
	if attr.state == Set {
		if expansion, ok := m.macros[attr.Name]; ok {
			local[attr.Name] = attr
			for _, e := range expansion {
				m.expand(local, e)
			}

			return
		}
	}

	local[attr.Name] = attr
}
