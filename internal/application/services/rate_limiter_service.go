package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/ports"
)

// RateLimiterService counts requests per (identifier, endpoint) pair against
// a fixed window. The counter store is injected so single-instance
// deployments can run on the in-memory table while multi-instance ones share
// a Redis counter.
type RateLimiterService struct {
	store     ports.RateLimitStore
	keyPrefix string
	logger    *logrus.Logger
}

func NewRateLimiterService(store ports.RateLimitStore, keyPrefix string, logger *logrus.Logger) *RateLimiterService {
	if keyPrefix == "" {
		keyPrefix = "ratelimit"
	}
	return &RateLimiterService{store: store, keyPrefix: keyPrefix, logger: logger}
}

func (s *RateLimiterService) key(identifier, endpoint string) string {
	return fmt.Sprintf("%s:%s:%s", s.keyPrefix, endpoint, identifier)
}

// Check consumes one request unit for identifier against endpoint and
// reports whether it is within budget. The decision is advisory; callers
// choose whether to enforce it.
func (s *RateLimiterService) Check(ctx context.Context, identifier, endpoint string, limit ports.Limit) (*ports.Decision, error) {
	count, windowStart, err := s.store.Increment(ctx, s.key(identifier, endpoint), limit.Window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"identifier": identifier, "endpoint": endpoint}).
				WithError(err).Error("rate limiter: failed to increment window")
		}
		// fail open; the store returned no usable window start, so pretend a
		// fresh window opened now
		return &ports.Decision{Allowed: true, Remaining: limit.Max - 1, Reset: time.Now().Add(limit.Window)}, err
	}
	reset := windowStart.Add(limit.Window)

	if count > limit.Max {
		return &ports.Decision{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	return &ports.Decision{Allowed: true, Remaining: limit.Max - count, Reset: reset}, nil
}

// Reset drops the counter for the pair, forgetting all history in the
// current window.
func (s *RateLimiterService) Reset(ctx context.Context, identifier, endpoint string) error {
	return s.store.Remove(ctx, s.key(identifier, endpoint))
}
