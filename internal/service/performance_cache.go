package service

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
)

// PerformanceFetchFunc loads a fresh performance payload for one account.
type PerformanceFetchFunc func(ctx context.Context, accountID string) ([]model.DailyPerformancePoint, error)

// cacheEntry is one cached performance payload. Entries are replaced
// wholesale on refresh and never mutated in place.
type cacheEntry struct {
	payload   []model.DailyPerformancePoint
	fetchedAt time.Time
}

// PerformanceCache memoizes derived performance payloads per account for a
// fixed freshness window. Memory is bounded by account count: there is no
// eviction beyond overwrite-on-refresh, and entries live for the process
// lifetime.
//
// The cache is the only state shared across concurrent account fetches. The
// mutex guards the map for lookup and insert only; it is never held across
// a fetch, so concurrent refreshes of different accounts do not serialize
// on each other.
type PerformanceCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time // injectable for tests
}

// NewPerformanceCache creates a cache whose entries stay fresh for ttl.
func NewPerformanceCache(ttl time.Duration) *PerformanceCache {
	return &PerformanceCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached payload for accountID when one exists and is
// younger than the freshness window, and otherwise invokes fetch and stores
// its result.
//
// A failing fetch propagates its error to the caller without touching any
// existing entry: a transient upstream failure must not erase otherwise
// valid cached history. The stale entry simply stays in place until a later
// fetch succeeds.
func (c *PerformanceCache) GetOrFetch(ctx context.Context, accountID string, fetch PerformanceFetchFunc) ([]model.DailyPerformancePoint, error) {
	c.mu.Lock()
	entry, ok := c.entries[accountID]
	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return entry.payload, nil
	}
	c.mu.Unlock()

	payload, err := fetch(ctx, accountID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[accountID] = cacheEntry{
		payload:   payload,
		fetchedAt: c.now(),
	}
	c.mu.Unlock()

	return payload, nil
}
