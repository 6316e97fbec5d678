package application

import (
	"strings"
	"sync"
	"time"
)

// availabilityCache stores recently computed availability answers to avoid
// repeated reservation scans for identical queries while a room's bookings
// remain unchanged. Entries are scoped per room so a booking change only
// invalidates the room it touched.
type availabilityCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]availabilityCacheEntry
}

type availabilityCacheEntry struct {
	available bool
	expiresAt time.Time
}

func newAvailabilityCache(ttl time.Duration, maxEntries int, now func() time.Time) *availabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &availabilityCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]availabilityCacheEntry),
	}
}

func (c *availabilityCache) Get(key string) (bool, bool) {
	if c == nil {
		return false, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false, false
	}
	return entry.available, true
}

func (c *availabilityCache) Store(key string, available bool) {
	if c == nil {
		return
	}
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = availabilityCacheEntry{available: available, expiresAt: expiry}
}

// InvalidateRoom drops every cached answer for the given room.
func (c *availabilityCache) InvalidateRoom(roomID string) {
	if c == nil {
		return
	}
	prefix := roomID + "|"
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

func (c *availabilityCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *availabilityCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func buildAvailabilityCacheKey(roomID string, start, end time.Time) string {
	builder := strings.Builder{}
	builder.WriteString(roomID)
	builder.WriteString("|")
	builder.WriteString(start.UTC().Format(time.RFC3339Nano))
	builder.WriteString("|")
	builder.WriteString(end.UTC().Format(time.RFC3339Nano))
	return builder.String()
}
