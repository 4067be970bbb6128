package cache

import (
	"context"
	"sync"
	"time"

	"jobeval/pkg/platform/sentinel"
)

type cachedValidity struct {
	valid    bool
	storedAt time.Time
}

// InMemoryCache keeps answers in process with a TTL.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedValidity
	ttl     time.Duration
	now     func() time.Time
}

// MemoryOption configures an InMemoryCache.
type MemoryOption func(*InMemoryCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *InMemoryCache) { c.now = now }
}

func NewInMemoryCache(ttl time.Duration, opts ...MemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		entries: make(map[string]cachedValidity),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *InMemoryCache) Save(_ context.Context, identityNumber string, valid bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[digest(identityNumber)] = cachedValidity{valid: valid, storedAt: c.now()}
	return nil
}

// Find returns a live entry. An expired entry is deleted on the way out.
func (c *InMemoryCache) Find(_ context.Context, identityNumber string) (bool, error) {
	key := digest(identityNumber)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if c.now().Sub(cached.storedAt) < c.ttl {
		return cached.valid, nil
	}

	c.mu.Lock()
	// A concurrent Save may have refreshed the entry since the read.
	if current, ok := c.entries[key]; ok && c.now().Sub(current.storedAt) >= c.ttl {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return false, sentinel.ErrNotFound
}

// Purge drops expired entries and returns how many were removed.
func (c *InMemoryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	now := c.now()
	for key, cached := range c.entries {
		if now.Sub(cached.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired or not.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RunJanitor purges expired entries every interval until ctx is done, so
// numbers that are never looked up again do not stay in memory. It returns
// ctx.Err().
func (c *InMemoryCache) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = c.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Purge()
		}
	}
}
