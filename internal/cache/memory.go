package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryCache is an in-process ExistenceCache. The clock is injectable so
// expiry is testable without sleeping.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a memory cache with the given TTL. A TTL of zero
// or less uses DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCacheWithClock(ttl, time.Now)
}

// NewMemoryCacheWithClock creates a memory cache with an injected clock.
func NewMemoryCacheWithClock(ttl time.Duration, now func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Check returns the cached answer, lazily dropping expired entries.
func (c *MemoryCache) Check(_ context.Context, normalizedURL string) (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.entries[normalizedURL]
	if !ok {
		return Entry{}, false, nil
	}
	if !c.now().Before(stored.expiresAt) {
		delete(c.entries, normalizedURL)
		return Entry{}, false, nil
	}
	return stored.entry, true, nil
}

// Set records an existence answer with a fresh TTL.
func (c *MemoryCache) Set(_ context.Context, normalizedURL string, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[normalizedURL] = memoryEntry{entry: entry, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate removes the entry for a URL.
func (c *MemoryCache) Invalidate(_ context.Context, normalizedURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, normalizedURL)
	return nil
}
