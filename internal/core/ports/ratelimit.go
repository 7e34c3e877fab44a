package ports

import (
	"context"
	"time"
)

// Limit is a per-endpoint request budget over a fixed window.
type Limit struct {
	Max    int
	Window time.Duration
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// RateLimitStore provides low-level atomic operations for rate limiting
// counters. Implementations must be safe for concurrent use. The in-memory
// store serves single-instance deployments; the Redis store is the shared
// variant for multi-instance ones.
type RateLimitStore interface {
	// Increment bumps the counter for key in the current fixed window and
	// returns the updated count along with the window start time.
	Increment(ctx context.Context, key string, window time.Duration) (count int, windowStart time.Time, err error)
	// Remove drops the counter for key; absence is not an error.
	Remove(ctx context.Context, key string) error
}

// RateLimiter decides whether a request from identifier against endpoint is
// within budget. The check is advisory: callers choose whether to enforce.
type RateLimiter interface {
	Check(ctx context.Context, identifier, endpoint string, limit Limit) (*Decision, error)
	Reset(ctx context.Context, identifier, endpoint string) error
}

// LockoutStatus reports whether an identifier may attempt to log in.
type LockoutStatus struct {
	Allowed     bool
	Remaining   int
	LockedUntil *time.Time
}

// LoginLockout tracks failed login attempts per identifier and hard-blocks
// an identifier once the failure threshold is reached, independent of any
// rate limit window.
type LoginLockout interface {
	Check(ctx context.Context, identifier string) (*LockoutStatus, error)
	RecordFailure(ctx context.Context, identifier string) error
	Clear(ctx context.Context, identifier string) error
}
