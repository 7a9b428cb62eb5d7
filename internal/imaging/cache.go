package imaging

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultCacheCapacity is the number of decoded buffers kept by NewDecodeCache(0).
const DefaultCacheCapacity = 6

// cacheKey identifies one decoded rendition of a source.
type cacheKey struct {
	source string
	width  int
}

// DecodeCache is a bounded least-recently-used cache of decoded pixel buffers.
//
// Entries are keyed by (source, target decode width), so the same image decoded
// at two sizes occupies two slots. Once more than Capacity entries are added,
// the least recently used one is evicted. Lookups and inserts are O(1).
//
// DecodeCache is safe for concurrent use by multiple goroutines.
type DecodeCache struct {
	mu      sync.Mutex
	entries *lru.Cache
	widths  map[string]map[int]struct{}
}

// NewDecodeCache creates a cache holding at most capacity buffers.
// A capacity of zero or less selects DefaultCacheCapacity.
func NewDecodeCache(capacity int) *DecodeCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	c := &DecodeCache{
		entries: lru.New(capacity),
		widths:  make(map[string]map[int]struct{}),
	}
	c.entries.OnEvicted = c.forget
	return c
}

// forget drops an evicted key from the per-source index. Called with mu held.
func (c *DecodeCache) forget(key lru.Key, _ interface{}) {
	k := key.(cacheKey)
	ws := c.widths[k.source]
	delete(ws, k.width)
	if len(ws) == 0 {
		delete(c.widths, k.source)
	}
}

// Get returns the buffer for (source, width) and marks it most recently used.
func (c *DecodeCache) Get(source string, width int) (*PixelBuffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(cacheKey{source: source, width: width})
	if !ok {
		return nil, false
	}
	return v.(*PixelBuffer), true
}

// Put stores a buffer, replacing any previous entry for the same key.
func (c *DecodeCache) Put(source string, width int, buf *PixelBuffer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Add(cacheKey{source: source, width: width}, buf)
	ws, ok := c.widths[source]
	if !ok {
		ws = make(map[int]struct{})
		c.widths[source] = ws
	}
	ws[width] = struct{}{}
}

// Evict removes every cached rendition of source.
func (c *DecodeCache) Evict(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for w := range c.widths[source] {
		c.entries.Remove(cacheKey{source: source, width: w})
	}
}

// Clear removes all entries.
func (c *DecodeCache) Clear() {
	c.mu.Lock()
	c.entries.Clear()
	c.widths = make(map[string]map[int]struct{})
	c.mu.Unlock()
}

// Len returns the number of cached buffers.
func (c *DecodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Capacity returns the maximum number of cached buffers.
func (c *DecodeCache) Capacity() int {
	return c.entries.MaxEntries
}
