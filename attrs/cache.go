package attrs

import (
	"os"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/singleflight"
)

// fileCache memoizes the parse of a single rule file by (path, stat). A
// concurrent re-parse of the same path collapses into one call to parse
// via the embedded singleflight.Group, per §4.A's caching contract and
// §9's "lookup is hot" note on the attribute/ignore registries.
type fileCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	group   singleflight.Group
}

type cacheEntry[T any] struct {
	mtime time.Time
	size  int64
	value T
}

func newFileCache[T any]() *fileCache[T] {
	return &fileCache[T]{entries: make(map[string]cacheEntry[T])}
}

// get returns the parsed contents of path, reusing the cached value when
// the file's mtime and size have not changed since it was parsed. A
// missing file is normal and silent: it returns the zero value of T with
// no error.
func (c *fileCache[T]) get(fs billy.Filesystem, path string, parse func(billy.File) (T, error)) (T, error) {
	var zero T

	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, nil
		}
		return zero, err
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.mtime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.value, nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		f, err := fs.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return zero, nil
			}
			return nil, err
		}
		defer f.Close()

		val, err := parse(f)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[path] = cacheEntry[T]{mtime: info.ModTime(), size: info.Size(), value: val}
		c.mu.Unlock()

		return val, nil
	})
	if err != nil {
		return zero, err
	}

	return v.(T), nil
}

// flush discards every memoized entry, forcing the next get of any path
// to re-stat and re-parse.
func (c *fileCache[T]) flush() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry[T])
	c.mu.Unlock()
}
