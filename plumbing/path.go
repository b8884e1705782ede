package plumbing

import "strings"

// ValidatePath rejects the path shapes every ingestion point in the core
// must refuse per the data model: "." / ".." segments, and an embedded
// ".git" segment anywhere in the path.
func ValidatePath(p string) error {
	if p == "" {
		return nil
	}

	for _, part := range strings.Split(p, "/") {
		switch part {
		case ".", "..":
			return NewInvalidf("path %q contains a %q segment", p, part)
		case ".git":
			return NewInvalidf("path %q contains an embedded .git segment", p)
		}
	}

	return nil
}
