package diff

import (
	"strings"

	"github.com/go-git/wtsync/plumbing/format/gitignore"
)

// pathspec restricts a Diff to a set of literal paths or glob patterns
// (§6 "Pathspec"), reusing the gitignore pattern language since both
// describe the same "does this path match" question over the same
// slash-separated path shape.
type pathspec struct {
	literal  []string
	patterns []gitignore.Pattern
}

// newPathspec returns nil when o names no restriction, so match() can be
// called unconditionally by the engine.
func newPathspec(o Options) *pathspec {
	if len(o.Pathspec) == 0 {
		return nil
	}

	ps := &pathspec{}
	if o.DisablePathspecMatch {
		ps.literal = o.Pathspec
		return ps
	}

	for _, p := range o.Pathspec {
		ps.patterns = append(ps.patterns, gitignore.ParsePattern(p, nil))
	}
	return ps
}

func splitPathspec(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// match reports whether path, a slash-separated repository path, is
// selected by ps. A nil ps (no pathspec configured) always matches.
func (ps *pathspec) match(path string, isDir bool) bool {
	if ps == nil {
		return true
	}

	if ps.literal != nil {
		for _, lit := range ps.literal {
			lit = strings.Trim(lit, "/")
			if path == lit || strings.HasPrefix(path, lit+"/") {
				return true
			}
		}
		return false
	}

	segs := splitPathspec(path)
	for _, pat := range ps.patterns {
		// Pathspec glob matching only cares whether a pattern selects the
		// path at all; gitignore's Include/Exclude distinction (whether a
		// negated rule re-includes something) doesn't apply here.
		if pat.Match(segs, isDir) != gitignore.NoMatch {
			return true
		}
	}
	return false
}
