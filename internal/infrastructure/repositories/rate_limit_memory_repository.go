package repositories

import (
	"context"
	"sync"
	"time"
)

type rateLimitEntry struct {
	count       int
	windowStart time.Time
	window      time.Duration
}

// RateLimitMemoryRepository keeps rate limit counters in a process-local
// map. Counters reset on restart and are not shared across instances; this
// is the single-instance store, with the Redis variant covering shared
// deployments. Expired entries are purged lazily on every increment.
type RateLimitMemoryRepository struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

func NewRateLimitMemoryRepository() *RateLimitMemoryRepository {
	return &RateLimitMemoryRepository{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// NewRateLimitMemoryRepositoryWithClock allows tests to control the time source.
func NewRateLimitMemoryRepositoryWithClock(now func() time.Time) *RateLimitMemoryRepository {
	return &RateLimitMemoryRepository{
		entries: make(map[string]*rateLimitEntry),
		now:     now,
	}
}

func (r *RateLimitMemoryRepository) Increment(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	// lazy expiry: full scan, acceptable at single-instance scale. Each
	// entry ages out against the window it was created under, so endpoints
	// with different windows do not purge each other early.
	for k, e := range r.entries {
		if now.Sub(e.windowStart) >= e.window {
			delete(r.entries, k)
		}
	}

	e, ok := r.entries[key]
	if !ok {
		e = &rateLimitEntry{count: 0, windowStart: now, window: window}
		r.entries[key] = e
	}
	e.count++
	return e.count, e.windowStart, nil
}

func (r *RateLimitMemoryRepository) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}
