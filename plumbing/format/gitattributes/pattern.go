package gitattributes

import (
	"path/filepath"
	"strings"
)

// Pattern defines a gitattributes pattern, scoped to the directory
// (domain) it was read from.
type Pattern interface {
	// Match returns true if path (a sequence of path components,
	// not including the repository root) matches this pattern.
	Match(path []string) bool
}

type pattern struct {
	domain  []string
	pattern []string
}

// ParsePattern parses a single gitattributes pattern line into a
// Pattern, anchored to domain (the slash-split directory the
// .gitattributes file it came from lives in).
func ParsePattern(p string, domain []string) Pattern {
	return &pattern{
		domain:  domain,
		pattern: strings.Split(p, "/"),
	}
}

func (p *pattern) Match(path []string) bool {
	if len(path) < len(p.domain) {
		return false
	}

	for i, e := range p.domain {
		if path[i] != e {
			return false
		}
	}

	rest := path[len(p.domain):]

	if len(p.pattern) == 1 {
		return p.simpleMatch(rest)
	}

	return p.globMatch(rest)
}

// simpleMatch matches a single-component (no slash) pattern against
// the basename of rest, the way a plain gitattributes entry with no
// slash matches a file by name at any depth.
func (p *pattern) simpleMatch(rest []string) bool {
	if len(rest) == 0 {
		return false
	}

	ok, err := filepath.Match(p.pattern[0], rest[len(rest)-1])
	return err == nil && ok
}

// globMatch matches a multi-component pattern, anchoring it at the
// root of rest (a pattern containing a slash is always anchored,
// whether or not it starts with one).
func (p *pattern) globMatch(rest []string) bool {
	pat := p.pattern
	if len(pat) > 0 && pat[0] == "" {
		pat = pat[1:]
	}

	return matchComponents(pat, rest)
}

func matchComponents(pattern, path []string) bool {
	for len(pattern) > 0 {
		comp := pattern[0]

		if comp == "**" {
			if len(pattern) == 1 {
				// a trailing "**" matches everything strictly
				// inside, not the directory itself.
				return len(path) > 0
			}

			for i := 0; i <= len(path); i++ {
				if matchComponents(pattern[1:], path[i:]) {
					return true
				}
			}

			return false
		}

		if strings.Contains(comp, "**") {
			// "**" mixed with other characters in the same
			// component is not a supported wildcard; such a
			// pattern never matches.
			return false
		}

		if len(path) == 0 {
			return false
		}

		ok, err := filepath.Match(comp, path[0])
		if err != nil || !ok {
			return false
		}

		pattern = pattern[1:]
		path = path[1:]
	}

	return len(path) == 0
}
