// Package cache provides the caller-side read-through memo for engine
// results. It is a pure performance optimization owned by the host, not
// engine state: the host invalidates it whenever a correction is learned.
package cache

import (
	"sync"
	"time"

	"github.com/vmachacek/ledgermind/internal/model"
)

type entry struct {
	expiry time.Time
	result model.Result
}

// ResultCache provides thread-safe caching of categorization results keyed
// by transaction ID.
type ResultCache struct {
	entries map[string]entry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// New creates a cache with the specified TTL and starts its cleanup loop.
func New(ttl time.Duration) *ResultCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	c := &ResultCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Get retrieves a cached result if it exists and hasn't expired.
func (c *ResultCache) Get(txnID string) (model.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[txnID]
	if !ok || time.Now().After(e.expiry) {
		return model.Result{}, false
	}

	return e.result, true
}

// Set stores a result in the cache.
func (c *ResultCache) Set(txnID string, result model.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[txnID] = entry{
		result: result,
		expiry: time.Now().Add(c.ttl),
	}
}

// Invalidate removes all entries. Called after Learn or Forget, since a
// correction can change the outcome for any cached transaction.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Size returns the number of entries in the cache.
func (c *ResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *ResultCache) Close() {
	close(c.stopCh)
}

func (c *ResultCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, e := range c.entries {
				if now.After(e.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
