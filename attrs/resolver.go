package attrs

import (
	"io"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"

	"github.com/go-git/wtsync/plumbing/format/gitattributes"
	"github.com/go-git/wtsync/plumbing/format/gitignore"
)

const (
	ignoreFileName = ".gitignore"
	attrsFileName  = ".gitattributes"
	infoExclude    = ".git/info/exclude"
	infoAttributes = ".git/info/attributes"
)

// Resolver answers attribute and ignore queries for paths under a single
// workdir root, implementing the precedence and caching contract of
// §4.A: per-directory files win over the per-repository info file, which
// wins over the user-global file, which wins over the system-global file.
type Resolver struct {
	fs billy.Filesystem

	ignoreCache *fileCache[[]gitignore.Pattern]
	attrsCache  *fileCache[[]gitattributes.MatchAttribute]

	globalOnce   sync.Once
	globalIgnore []gitignore.Pattern
	globalAttrs  []gitattributes.MatchAttribute
	systemOnce   sync.Once
	systemIgnore []gitignore.Pattern
	systemAttrs  []gitattributes.MatchAttribute
	globalErr    error
	systemErr    error

	mu      sync.RWMutex
	runtime []gitignore.Pattern // fake rules prepended at runtime, highest precedence
}

// NewResolver returns a Resolver rooted at fs.
func NewResolver(fs billy.Filesystem) *Resolver {
	return &Resolver{
		fs:          fs,
		ignoreCache: newFileCache[[]gitignore.Pattern](),
		attrsCache:  newFileCache[[]gitattributes.MatchAttribute](),
	}
}

// AddIgnorePattern prepends a rule that exists only in memory, never on
// disk, at the highest precedence (§4.A "internal/fake rules").
func (r *Resolver) AddIgnorePattern(p gitignore.Pattern) {
	r.mu.Lock()
	r.runtime = append(r.runtime, p)
	r.mu.Unlock()
}

// Flush discards every memoized parse, including the global and system
// files, forcing the next query to re-read from fs.
func (r *Resolver) Flush() {
	r.ignoreCache.flush()
	r.attrsCache.flush()
	r.globalOnce = sync.Once{}
	r.systemOnce = sync.Once{}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// ancestorDirs returns the chain of directories that own rule files
// applying to path, from the workdir root down to path's containing
// directory (root first). A directory's own .gitattributes/.gitignore
// governs its children, never the directory itself, so the chain always
// excludes path's own basename, whether or not path names a directory.
func ancestorDirs(path string) [][]string {
	segs := splitPath(path)
	if len(segs) > 0 {
		segs = segs[:len(segs)-1]
	}

	dirs := make([][]string, 0, len(segs)+1)
	for i := 0; i <= len(segs); i++ {
		dirs = append(dirs, segs[:i])
	}
	return dirs
}

func joinPath(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	return strings.Join(segs, "/")
}

func (r *Resolver) loadIgnoreFile(dir []string) ([]gitignore.Pattern, error) {
	path := r.fs.Join(append(append([]string{}, dir...), ignoreFileName)...)
	return r.ignoreCache.get(r.fs, path, func(f billy.File) ([]gitignore.Pattern, error) {
		return parseIgnoreReader(f, dir)
	})
}

func (r *Resolver) loadAttrsFile(dir []string) ([]gitattributes.MatchAttribute, error) {
	path := r.fs.Join(append(append([]string{}, dir...), attrsFileName)...)
	return r.attrsCache.get(r.fs, path, func(f billy.File) ([]gitattributes.MatchAttribute, error) {
		return gitattributes.ReadAttributes(f, dir, true)
	})
}

func (r *Resolver) loadInfoExclude() ([]gitignore.Pattern, error) {
	return r.ignoreCache.get(r.fs, infoExclude, func(f billy.File) ([]gitignore.Pattern, error) {
		return parseIgnoreReader(f, nil)
	})
}

func (r *Resolver) loadInfoAttributes() ([]gitattributes.MatchAttribute, error) {
	return r.attrsCache.get(r.fs, infoAttributes, func(f billy.File) ([]gitattributes.MatchAttribute, error) {
		return gitattributes.ReadAttributes(f, nil, true)
	})
}

func (r *Resolver) loadGlobal() {
	r.globalOnce.Do(func() {
		r.globalIgnore, r.globalErr = gitignore.LoadGlobalPatterns(r.fs)
		if r.globalErr == nil {
			r.globalAttrs, r.globalErr = gitattributes.LoadGlobalPatterns(r.fs)
		}
	})
}

func (r *Resolver) loadSystem() {
	r.systemOnce.Do(func() {
		r.systemIgnore, r.systemErr = gitignore.LoadSystemPatterns(r.fs)
		if r.systemErr == nil {
			r.systemAttrs, r.systemErr = gitattributes.LoadSystemPatterns(r.fs)
		}
	})
}

// IsIgnored reports whether path is excluded by the combined ignore rule
// chain. A path whose parent directory is ignored is always ignored,
// regardless of any negation rule of its own (§4.A).
func (r *Resolver) IsIgnored(path string, isDir bool) (bool, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return false, nil
	}

	if len(segs) > 1 {
		parentIgnored, err := r.IsIgnored(joinPath(segs[:len(segs)-1]), true)
		if err != nil {
			return false, err
		}
		if parentIgnored {
			return true, nil
		}
	}

	patterns, err := r.ignorePatterns(path)
	if err != nil {
		return false, err
	}

	return gitignore.NewMatcher(patterns).Match(segs, isDir), nil
}

// ignorePatterns returns the combined, precedence-ordered ignore rules
// that apply somewhere along path's ancestor chain: system, global,
// info/exclude, each directory from root to path's containing directory,
// then the in-memory runtime rules, in the order gitignore.Matcher
// expects (later entries win).
func (r *Resolver) ignorePatterns(path string) ([]gitignore.Pattern, error) {
	r.loadSystem()
	if r.systemErr != nil {
		return nil, r.systemErr
	}
	r.loadGlobal()
	if r.globalErr != nil {
		return nil, r.globalErr
	}

	var combined []gitignore.Pattern
	combined = append(combined, r.systemIgnore...)
	combined = append(combined, r.globalIgnore...)

	info, err := r.loadInfoExclude()
	if err != nil {
		return nil, err
	}
	combined = append(combined, info...)

	for _, dir := range ancestorDirs(path) {
		ps, err := r.loadIgnoreFile(dir)
		if err != nil {
			return nil, err
		}
		combined = append(combined, ps...)
	}

	r.mu.RLock()
	combined = append(combined, r.runtime...)
	r.mu.RUnlock()

	return combined, nil
}

// Attributes resolves every name in names against path, returning TRUE,
// FALSE, UNSET, NULL or a string Value per name (§4.A contract).
func (r *Resolver) Attributes(path string, isDir bool, names []string) (map[string]*Value, error) {
	segs := splitPath(path)

	r.loadSystem()
	if r.systemErr != nil {
		return nil, r.systemErr
	}
	r.loadGlobal()
	if r.globalErr != nil {
		return nil, r.globalErr
	}

	// gitattributes.Matcher gives earlier entries precedence, so the
	// combined slice must start with the nearest directory (highest
	// precedence per §4.A) and end with the system file (lowest).
	var combined []gitattributes.MatchAttribute
	dirs := ancestorDirs(path)
	for i := len(dirs) - 1; i >= 0; i-- {
		mas, err := r.loadAttrsFile(dirs[i])
		if err != nil {
			return nil, err
		}
		combined = append(combined, mas...)
	}

	info, err := r.loadInfoAttributes()
	if err != nil {
		return nil, err
	}
	combined = append(combined, info...)
	combined = append(combined, r.globalAttrs...)
	combined = append(combined, r.systemAttrs...)

	matched, _ := gitattributes.NewMatcher(combined).Match(segs, &isDir)

	result := make(map[string]*Value, len(names))
	for _, name := range names {
		attr, ok := matched[name]
		if !ok {
			result[name] = NULL
			continue
		}

		switch {
		case attr.IsSet():
			result[name] = TRUE
		case attr.IsUnset():
			result[name] = FALSE
		case attr.IsValueSet():
			result[name] = stringValue(attr.Value())
		default: // Unspecified
			result[name] = UNSET
		}
	}

	return result, nil
}

func parseIgnoreReader(f billy.File, domain []string) ([]gitignore.Pattern, error) {
	var ps []gitignore.Pattern
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}

	return ps, nil
}
