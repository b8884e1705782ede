package index

import (
	"path"
	"strings"
)

// match reports whether name matches pattern using the same syntax as
// filepath.Glob, documented by Index.Glob, except that '*' and '?' also
// match '/', so "foo/b*" matches "foo/bar/bar". Patterns and names are
// always compared in their slash-separated form so the result does not
// depend on the host path separator.
func match(pattern, name string) (bool, error) {
	// path.Match stops wildcards at '/'; a NUL byte never occurs in an
	// entry name, so swapping it in on both sides lets them cross it.
	return path.Match(strings.ReplaceAll(pattern, "/", "\x00"), strings.ReplaceAll(name, "/", "\x00"))
}
