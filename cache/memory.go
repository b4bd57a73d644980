package cache

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ZaguanLabs/i18nsync"
)

// cacheEntry holds a cached value with its timestamp.
type cacheEntry struct {
	value     string
	timestamp time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support.
type MemoryCache struct {
	cache map[string]cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryCache creates an in-memory cache. A ttl of 0 or less means
// entries never expire.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *MemoryCache) expired(e cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.timestamp) > c.ttl
}

// Get returns the value for key if it is present and not expired.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.expired(entry, c.now()) {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{
		value:     value,
		timestamp: c.now(),
	}
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// Entries returns the non-expired entries sorted by key.
func (c *MemoryCache) Entries() []i18nsync.KeyEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	out := make([]i18nsync.KeyEntry, 0, len(c.cache))
	for key, entry := range c.cache {
		if c.expired(entry, now) {
			continue
		}
		out = append(out, i18nsync.KeyEntry{Key: key, Value: entry.value})
	}
	slices.SortFunc(out, func(a, b i18nsync.KeyEntry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// Verify MemoryCache implements TranslationCache
var _ TranslationCache = (*MemoryCache)(nil)
