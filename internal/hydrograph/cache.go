package hydrograph

import (
	"path/filepath"
	"sort"
	"sync"
)

// Cache memoizes loaded hydrograph tables keyed by absolute file path.
// Ownership is explicit: the caller constructs one, decides its
// lifetime and invalidates entries when the underlying files change.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*SimHydrographs
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*SimHydrographs)}
}

// Load returns the cached table for path, loading it on first use.
func (c *Cache) Load(path string) (*SimHydrographs, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	sh, ok := c.entries[abs]
	c.mu.RUnlock()
	if ok {
		return sh, nil
	}

	sh, err = Load(abs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// Another goroutine may have loaded it meanwhile; keep the first.
	if existing, ok := c.entries[abs]; ok {
		sh = existing
	} else {
		c.entries[abs] = sh
	}
	c.mu.Unlock()

	return sh, nil
}

// Get returns the cached table for path without loading.
func (c *Cache) Get(path string) (*SimHydrographs, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	sh, ok := c.entries[abs]
	return sh, ok
}

// Invalidate drops the cached entry for path, if any.
func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, abs)
	c.mu.Unlock()
}

// Clear drops all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*SimHydrographs)
	c.mu.Unlock()
}

// Paths returns the sorted paths of all cached tables.
func (c *Cache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
