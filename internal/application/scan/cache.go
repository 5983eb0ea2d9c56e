package scan

import (
	"sync"
	"time"

	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
)

// CacheEntry holds one target's last completed report.
type CacheEntry struct {
	TargetID string         `json:"target_id"`
	LastScan *time.Time     `json:"last_scan"`
	Data     *domain.Report `json:"data"`
}

// CacheStatus is the introspection view of one entry.
type CacheStatus struct {
	Cached   bool       `json:"cached"`
	LastScan *time.Time `json:"last_scan"`
}

// Cache stores completed scan reports per target with a fixed TTL.
// Expiry is lazy: expired entries read as absent but stay in place until
// overwritten or invalidated. There is no size bound: the cache holds one
// entry per scanned directory, which stays small in practice.
//
// Constructed once at the composition root and injected; not a global.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached report for targetID, or (nil, false) when absent
// or expired. Never mutates state.
func (c *Cache) Get(targetID string) (*domain.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[targetID]
	if !ok || e.LastScan == nil || e.Data == nil {
		return nil, false
	}
	if c.now().Sub(*e.LastScan) > c.ttl {
		return nil, false
	}
	return e.Data, true
}

// Put overwrites the entry for targetID, stamping the scan time.
func (c *Cache) Put(targetID string, report *domain.Report) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[targetID] = &CacheEntry{
		TargetID: targetID,
		LastScan: &now,
		Data:     report,
	}
}

// Invalidate clears one entry, or every entry when targetID is empty.
func (c *Cache) Invalidate(targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if targetID == "" {
		c.entries = make(map[string]*CacheEntry)
		return
	}
	delete(c.entries, targetID)
}

// Status reports every known entry, including expired ones. Introspection
// only: expired entries still show cached=true with their last scan time.
func (c *Cache) Status() map[string]CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]CacheStatus, len(c.entries))
	for id, e := range c.entries {
		out[id] = CacheStatus{
			Cached:   e.LastScan != nil,
			LastScan: e.LastScan,
		}
	}
	return out
}
