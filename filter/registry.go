package filter

import (
	"sort"
	"sync"
)

// registry is the process-wide filter registry (§9 "Global state"):
// registration is uncommon and lookup is hot, so it is a lazily
// initialized singleton guarded by a read-write lock rather than
// threaded through every call site.
type registry struct {
	mu      sync.RWMutex
	filters []*Filter
}

var global = &registry{}

// Register adds f to the process-wide registry, keeping the list sorted
// by ascending Priority (§3 "Filters are globally registered and sorted
// by ascending priority"). Registering a Filter with the same Name as an
// existing one replaces it, so repeated package init in tests is
// idempotent.
func Register(f *Filter) {
	global.mu.Lock()
	defer global.mu.Unlock()

	for i, existing := range global.filters {
		if existing.Name == f.Name {
			global.filters[i] = f
			sortFilters(global.filters)
			return
		}
	}

	global.filters = append(global.filters, f)
	sortFilters(global.filters)
}

func sortFilters(fs []*Filter) {
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].Priority < fs[j].Priority })
}

// Registered returns a snapshot of the current registry in priority
// order.
func Registered() []*Filter {
	global.mu.RLock()
	defer global.mu.RUnlock()

	out := make([]*Filter, len(global.filters))
	copy(out, global.filters)
	return out
}

func init() {
	Register(NewCRLF())
	Register(NewIdent())
}
