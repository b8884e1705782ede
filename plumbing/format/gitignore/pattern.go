// Package gitignore implements the ignore-pattern half of the attribute
// resolver's rule syntax: a pattern matches a path, possibly restricted to
// a containing-directory "domain", and may be negated.
package gitignore

import (
	"path/filepath"
	"strings"
)

// MatchResult is the outcome of testing a single Pattern against a path.
type MatchResult int

const (
	// NoMatch means the pattern doesn't apply to this path at all.
	NoMatch MatchResult = iota
	// Exclude means the path should be treated as ignored.
	Exclude
	// Include means a negated pattern re-includes a previously ignored path.
	Include
)

// Pattern is a single ignore rule, following the rules of gitignore(5): a
// leading "!" negates, a pattern containing a non-trailing "/" is anchored
// to its domain, "**" matches any number of intermediate path segments.
type Pattern interface {
	Match(path []string, isDir bool) MatchResult
}

type pattern struct {
	domain  []string
	pattern []string
	inverse bool
	dirOnly bool
}

// ParsePattern parses a single ignore-file line (no leading '#', already
// trimmed) anchored to the given domain (the slash-separated path, relative
// to the workdir root, of the directory containing the rule file).
func ParsePattern(p string, domain []string) Pattern {
	res := pattern{domain: domain}

	if strings.HasPrefix(p, "!") {
		res.inverse = true
		p = p[1:]
	}

	if strings.HasSuffix(p, "/") && !strings.HasSuffix(p, "\\/") {
		res.dirOnly = true
		p = p[:len(p)-1]
	}

	if strings.Contains(p, "/") {
		res.pattern = strings.Split(p, "/")
	} else {
		res.pattern = []string{p}
	}

	return &res
}

func (p *pattern) Match(path []string, isDir bool) MatchResult {
	if len(path) <= len(p.domain) {
		return NoMatch
	}

	for i, e := range p.domain {
		if path[i] != e {
			return NoMatch
		}
	}

	path = path[len(p.domain):]
	if p.dirOnly && !isDir {
		if len(path) == 1 {
			return NoMatch
		}
	}

	if len(p.pattern) > 1 && p.pattern[0] == "" {
		return p.globMatch(path, true)
	}

	if len(p.pattern) == 1 {
		return p.simpleMatch(path, isDir)
	}

	return p.globMatch(path, false)
}

func (p *pattern) match() MatchResult {
	if p.inverse {
		return Include
	}
	return Exclude
}

func (p *pattern) simpleMatch(path []string, isDir bool) MatchResult {
	for i, name := range path {
		if match, err := filepath.Match(p.pattern[0], name); err != nil {
			return NoMatch
		} else if match {
			if p.dirOnly && !isDir && i == len(path)-1 {
				return NoMatch
			}
			return p.match()
		}
	}
	return NoMatch
}

func (p *pattern) globMatch(path []string, isAnchored bool) MatchResult {
	staticParts := p.pattern
	if staticParts[0] == "" {
		isAnchored = true
		staticParts = staticParts[1:]
	}
	if staticParts[len(staticParts)-1] == "" {
		staticParts = staticParts[:len(staticParts)-1]
	}

	for i, match := range staticParts {
		if match == "**" {
			if i == 0 {
				if p.matchSuffix(path, staticParts[i+1:]) {
					return p.match()
				}
				return NoMatch
			}
			if i == len(staticParts)-1 {
				if isAnchored && p.matchAll(path[:i], staticParts[:i]) {
					return p.match()
				}
				return NoMatch
			}

			for offset := 0; offset <= len(path)-i; offset++ {
				if p.matchAll(path[:i+offset], staticParts[:i]) &&
					p.matchSuffix(path[i+offset:], staticParts[i+1:]) {
					return p.match()
				}
			}
			return NoMatch
		}
		if i >= len(path) {
			return NoMatch
		}
		if ok, err := filepath.Match(match, path[i]); err != nil || !ok {
			return NoMatch
		}
	}

	if isAnchored && len(path) != len(staticParts) {
		return NoMatch
	}

	return p.match()
}

func (p *pattern) matchAll(path, pattern []string) bool {
	if len(path) != len(pattern) {
		return false
	}
	for i, match := range pattern {
		if ok, err := filepath.Match(match, path[i]); err != nil || !ok {
			return false
		}
	}
	return true
}

func (p *pattern) matchSuffix(path, pattern []string) bool {
	if len(pattern) > len(path) {
		return false
	}
	return p.matchAll(path[len(path)-len(pattern):], pattern)
}
