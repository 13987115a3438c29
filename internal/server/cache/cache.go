// Package cache holds computed planet read views for the HTTP server.
// Entries expire after a TTL and the whole cache is flushed on every write.
// Readers that compute a view outside the cache store it with SetIf, which
// drops the value when a flush happened after the read began.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/planets/pkg/planets"
)

// Cache wraps go-cache with typed accessors for planet views.
type Cache struct {
	store  *gocache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64

	// mu orders SetIf against Clear; gen counts flushes.
	mu  sync.RWMutex
	gen atomic.Uint64
}

// New creates a new cache with the given TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Planet returns a cached single-planet view.
func (c *Cache) Planet(key string) (planets.Planet, bool) {
	v, ok := c.get(key)
	if !ok {
		return planets.Planet{}, false
	}
	p, ok := v.(planets.Planet)
	return p, ok
}

// Planets returns a cached list view. The slice is copied so callers may
// modify it.
func (c *Cache) Planets(key string) ([]planets.Planet, bool) {
	v, ok := c.get(key)
	if !ok {
		return nil, false
	}
	ps, ok := v.([]planets.Planet)
	if !ok {
		return nil, false
	}
	out := make([]planets.Planet, len(ps))
	copy(out, ps)
	return out, true
}

// Float returns a cached scalar view.
func (c *Cache) Float(key string) (float64, bool) {
	v, ok := c.get(key)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Set stores a value in the cache with default TTL. Slices of planets are
// copied on the way in.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, clone(value), gocache.DefaultExpiration)
}

// Generation returns the current flush generation. Read it before loading
// the data a view is computed from and pass it to SetIf.
func (c *Cache) Generation() uint64 {
	return c.gen.Load()
}

// SetIf stores value only if the cache has not been cleared since gen was
// read. It reports whether the value was stored.
func (c *Cache) SetIf(gen uint64, key string, value any) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.gen.Load() != gen {
		return false
	}
	c.store.Set(key, clone(value), gocache.DefaultExpiration)
	return true
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items from the cache and starts a new generation.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen.Add(1)
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

func clone(value any) any {
	if ps, ok := value.([]planets.Planet); ok {
		cp := make([]planets.Planet, len(ps))
		copy(cp, ps)
		return cp
	}
	return value
}

func (c *Cache) get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int    `json:"item_count"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
	}
}

// Key helpers. Planet names are normalized so that lookups differing only
// in case share an entry.

// ListKey is the key for the full planet list.
func ListKey() string { return "planets" }

// PlanetKey is the key for a single planet.
func PlanetKey(name string) string { return "planet:" + planets.NormalizeName(name) }

// SortKey is the key for a sorted view. ref is empty for views that do not
// depend on a reference planet.
func SortKey(by, ref string, ascending bool) string {
	parts := []string{"sort", by}
	if ref != "" {
		parts = append(parts, planets.NormalizeName(ref))
	}
	parts = append(parts, strconv.FormatBool(ascending))
	return strings.Join(parts, ":")
}

// DistanceKey is the key for the distance between two planets. The
// distance is symmetric so both orders share an entry.
func DistanceKey(a, b string) string {
	a, b = planets.NormalizeName(a), planets.NormalizeName(b)
	if b < a {
		a, b = b, a
	}
	return "distance:" + a + ":" + b
}
