package application

import (
	"testing"
	"time"
)

func TestAvailabilityCacheExpiresEntries(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newAvailabilityCache(time.Second, 4, func() time.Time { return current })

	key := buildAvailabilityCacheKey("room-1", current, current.Add(time.Hour))
	cache.Store(key, true)
	if _, ok := cache.Get(key); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Get(key); ok {
		t.Fatalf("expected cache entry to expire")
	}
}

func TestAvailabilityCacheInvalidateRoom(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newAvailabilityCache(time.Minute, 8, func() time.Time { return now })

	keyA := buildAvailabilityCacheKey("room-1", now, now.Add(time.Hour))
	keyB := buildAvailabilityCacheKey("room-2", now, now.Add(time.Hour))
	cache.Store(keyA, true)
	cache.Store(keyB, false)

	cache.InvalidateRoom("room-1")

	if _, ok := cache.Get(keyA); ok {
		t.Fatalf("expected room-1 entries to be dropped")
	}
	if available, ok := cache.Get(keyB); !ok || available {
		t.Fatalf("expected room-2 entry to survive invalidation")
	}
}

func TestAvailabilityCacheEvictsWhenFull(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newAvailabilityCache(time.Minute, 2, func() time.Time { return now })

	cache.Store("a", true)
	cache.Store("b", true)
	cache.Store("c", true)

	count := 0
	for _, key := range []string{"a", "b", "c"} {
		if _, ok := cache.Get(key); ok {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected eviction to keep the cache at capacity, got %d entries", count)
	}
}
