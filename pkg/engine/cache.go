package engine

import (
	"sync"
	"time"

	"github.com/dmorales/crewsched-api-go/internal/clock"
	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// Cache memoizes scan results keyed by scan-scope fingerprint.
//
// There is no TTL. Invalidation is caller-driven: after any assignment, phase,
// or employee mutation the caller must Clear, or accept stale conflict data
// for up to one scan interval. Concurrent scans racing to Put the same key are
// fine; last write wins and the results are equivalent modulo the instant of
// computation.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	clock   clock.Clock
}

type cacheEntry struct {
	conflicts  []models.Conflict
	computedAt time.Time
}

// NewCache builds an empty cache stamping entries with clk.
func NewCache(clk clock.Clock) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		clock:   clk,
	}
}

// Get returns the cached conflicts for key and when they were computed.
func (c *Cache) Get(key string) ([]models.Conflict, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	// Copy so callers cannot mutate the cached slice.
	out := make([]models.Conflict, len(entry.conflicts))
	copy(out, entry.conflicts)
	return out, entry.computedAt, true
}

// Put stores conflicts under key, stamped with the current time.
func (c *Cache) Put(key string, conflicts []models.Conflict) {
	stored := make([]models.Conflict, len(conflicts))
	copy(stored, conflicts)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{conflicts: stored, computedAt: c.clock.Now()}
}

// Clear drops all entries unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports the number of cached scopes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
