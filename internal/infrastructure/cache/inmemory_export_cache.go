// Package cache provides stores for rendered report exports.
package cache

import (
	"context"
	"sync"
	"time"

	reportapp "github.com/erp/reporting/internal/application/report"
)

// entry represents a cached document with expiration
type entry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryExportCache implements ExportCache using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryExportCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryExportCache creates a new in-memory export cache
// It starts a background goroutine to clean up expired entries
func NewInMemoryExportCache() *InMemoryExportCache {
	c := &InMemoryExportCache{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop(5 * time.Minute)

	return c
}

// Get returns a copy of the cached document if present and not expired
func (c *InMemoryExportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of data for ttl
func (c *InMemoryExportCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		data:      append([]byte(nil), data...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryExportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (c *InMemoryExportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryExportCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemoryExportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Ensure InMemoryExportCache implements ExportCache
var _ reportapp.ExportCache = (*InMemoryExportCache)(nil)
