package matching

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sistersconnect/backend/internal/domain"
)

// ResultCache stores fully ranked match lists per (user, preferences)
// key. Implementations must publish writes atomically: a concurrent
// reader observes either a complete list or a miss, never a partial
// one.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]*domain.MatchScore, bool, error)
	Set(ctx context.Context, key string, results []*domain.MatchScore) error
	DeleteByUser(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}

// CacheKey builds the composite key for a user's ranked results. The
// user id prefix is what DeleteByUser matches on.
func CacheKey(userID, prefsHash string) string {
	return userID + ":" + prefsHash
}

type cacheEntry struct {
	results   []*domain.MatchScore
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-memory ResultCache with TTL
// expiration and an injectable clock for deterministic tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCacheWithClock(ttl, time.Now)
}

func NewMemoryCacheWithClock(ttl time.Duration, now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]*domain.MatchScore, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.results, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, results []*domain.MatchScore) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		results:   results,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

func (c *MemoryCache) DeleteByUser(_ context.Context, userID string) error {
	prefix := userID + ":"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	return nil
}
