// Package cache provides a bounded TTL cache for derived ranking views.
// Deriving a page is cheap, but encoded responses are requested repeatedly
// with identical query state while the user browses; caching them keeps the
// rankings endpoint from re-encoding the same page on every poll.
package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// entry wraps a cached view with expiry and insertion order tracking.
type entry struct {
	body      []byte
	expiry    time.Time
	insertIdx int64
}

// ViewCache caches encoded ranking views keyed by their query state. All
// entries are dropped when a new analysis result is published, so a cached
// view never mixes two results. Thread-safe with sync.Mutex.
type ViewCache struct {
	mu         sync.Mutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a ViewCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ViewCache {
	return &ViewCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// MakeKey builds a deterministic cache key from the view query state.
// Market and asset-type selections are order-insensitive.
func MakeKey(markets, assetTypes []string, sortPath string, descending bool, page, pageSize int) string {
	m := append([]string(nil), markets...)
	a := append([]string(nil), assetTypes...)
	sort.Strings(m)
	sort.Strings(a)

	dir := "asc"
	if descending {
		dir = "desc"
	}
	return fmt.Sprintf("%s|%s|%s|%s|%d:%d",
		strings.Join(m, ","), strings.Join(a, ","), sortPath, dir, page, pageSize)
}

// Get returns a cached view body if found and not expired.
func (c *ViewCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		delete(c.items, key)
		return nil, false
	}
	return e.body, true
}

// Set stores a view body. Evicts the oldest entry if at capacity.
func (c *ViewCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		body:      body,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}
	c.items[key] = e
}

// Clear drops every cached view. Called when a new analysis result replaces
// the current one.
func (c *ViewCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// Len returns the number of cached views.
func (c *ViewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called
// with mu held.
func (c *ViewCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
