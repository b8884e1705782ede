package filter

import "github.com/go-git/wtsync/attrs"

// Load resolves which registered filters apply to path, per §4.B
// Selection: the resolver is queried once for the union of every
// registered filter's required attribute names, then each filter is
// kept iff its whole AttrMatch spec is satisfied. The result is ordered
// for direction: registration order for ToODB, reversed for ToWorktree,
// matching §4.B's "the same list is traversed in registration order for
// to_odb and in reverse for to_worktree".
func Load(resolver *attrs.Resolver, path string, isDir bool, direction Direction) ([]*Filter, error) {
	candidates := Registered()

	names := attributeNames(candidates)
	values, err := resolver.Attributes(path, isDir, names)
	if err != nil {
		return nil, err
	}

	var selected []*Filter
	for _, f := range candidates {
		if f.matches(values) {
			selected = append(selected, f)
		}
	}

	if direction == ToWorktree {
		reverse(selected)
	}

	return selected, nil
}

func attributeNames(fs []*Filter) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range fs {
		for _, m := range f.Requires {
			if !seen[m.Name] {
				seen[m.Name] = true
				names = append(names, m.Name)
			}
		}
	}
	return names
}

func reverse(fs []*Filter) {
	for i, j := 0, len(fs)-1; i < j; i, j = i+1, j-1 {
		fs[i], fs[j] = fs[j], fs[i]
	}
}
