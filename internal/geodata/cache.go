package geodata

import (
	"sort"
	"sync"

	"github.com/calidata/monitor-inversiones/internal/geojson"
)

// Cache holds loaded collections keyed by canonical dataset name. It is an
// explicit object with caller-owned lifetime rather than package state, so
// tests and multiple loaders can each hold their own. No TTL and no size
// bound: the registered layer set is small and fixed per deployment.
// Overlapping loads of the same name are not deduplicated.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*geojson.FeatureCollection
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*geojson.FeatureCollection)}
}

func (c *Cache) Get(name string) (*geojson.FeatureCollection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fc, ok := c.entries[name]
	return fc, ok
}

func (c *Cache) Set(name string, fc *geojson.FeatureCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = fc
}

// Clear evicts the named entries, or everything when called with no names
func (c *Cache) Clear(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(names) == 0 {
		c.entries = make(map[string]*geojson.FeatureCollection)
		return
	}
	for _, name := range names {
		delete(c.entries, name)
	}
}

type CacheStats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return CacheStats{Size: len(keys), Keys: keys}
}
