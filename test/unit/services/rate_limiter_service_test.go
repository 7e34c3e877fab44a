package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	impl "github.com/storelaunch/storelaunch/internal/application/services"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/infrastructure/repositories"
	tmocks "github.com/storelaunch/storelaunch/test/mocks"
)

func TestRateLimiter_AllowsUpToLimitThenDenies(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewRateLimitMemoryRepository()
	svc := impl.NewRateLimiterService(store, "ratelimit", nil)
	limit := ports.Limit{Max: 5, Window: 15 * time.Minute}

	for i := 0; i < 5; i++ {
		decision, err := svc.Check(ctx, "1.2.3.4", "login", limit)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
		require.Equal(t, 4-i, decision.Remaining)
	}

	decision, err := svc.Check(ctx, "1.2.3.4", "login", limit)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, 0, decision.Remaining)
}

func TestRateLimiter_WindowResetRestoresBudget(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	store := repositories.NewRateLimitMemoryRepositoryWithClock(func() time.Time { return current })
	svc := impl.NewRateLimiterService(store, "ratelimit", nil)
	limit := ports.Limit{Max: 5, Window: 15 * time.Minute}

	for i := 0; i < 6; i++ {
		_, err := svc.Check(ctx, "1.2.3.4", "login", limit)
		require.NoError(t, err)
	}

	current = current.Add(15 * time.Minute)

	decision, err := svc.Check(ctx, "1.2.3.4", "login", limit)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	require.Equal(t, 4, decision.Remaining)
}

func TestRateLimiter_EndpointsAndIdentifiersAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewRateLimitMemoryRepository()
	svc := impl.NewRateLimiterService(store, "ratelimit", nil)
	limit := ports.Limit{Max: 1, Window: 15 * time.Minute}

	decision, err := svc.Check(ctx, "1.2.3.4", "login", limit)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = svc.Check(ctx, "1.2.3.4", "login", limit)
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	// same identifier, different endpoint
	decision, err = svc.Check(ctx, "1.2.3.4", "register", limit)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	// same endpoint, different identifier
	decision, err = svc.Check(ctx, "5.6.7.8", "login", limit)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestRateLimiter_FailsOpenOnStoreError(t *testing.T) {
	ctx := context.Background()
	store := &tmocks.RateLimitStoreMock{
		IncrementFn: func(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
			return 0, time.Time{}, errors.New("redis down")
		},
	}
	svc := impl.NewRateLimiterService(store, "ratelimit", nil)

	before := time.Now()
	decision, err := svc.Check(ctx, "1.2.3.4", "login", ports.Limit{Max: 5, Window: 15 * time.Minute})
	require.Error(t, err)
	require.True(t, decision.Allowed)
	// the store gave no window start, so the reset must still be a sane
	// future timestamp rather than an epoch-zero derivative
	require.False(t, decision.Reset.Before(before.Add(15*time.Minute)))
	require.False(t, decision.Reset.After(time.Now().Add(15*time.Minute)))
}

func TestRateLimiter_PurgeKeepsLongerWindowsAlive(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	store := repositories.NewRateLimitMemoryRepositoryWithClock(func() time.Time { return current })
	svc := impl.NewRateLimiterService(store, "ratelimit", nil)
	short := ports.Limit{Max: 5, Window: time.Minute}
	long := ports.Limit{Max: 5, Window: time.Hour}

	_, err := svc.Check(ctx, "1.2.3.4", "login", long)
	require.NoError(t, err)

	// past the short window but well inside the long one; the short-window
	// call's purge must age entries against their own window
	current = current.Add(2 * time.Minute)
	_, err = svc.Check(ctx, "1.2.3.4", "register", short)
	require.NoError(t, err)

	decision, err := svc.Check(ctx, "1.2.3.4", "login", long)
	require.NoError(t, err)
	require.Equal(t, long.Max-2, decision.Remaining)
}

func TestRateLimiter_ResetForgetsHistory(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewRateLimitMemoryRepository()
	svc := impl.NewRateLimiterService(store, "ratelimit", nil)
	limit := ports.Limit{Max: 1, Window: 15 * time.Minute}

	_, err := svc.Check(ctx, "1.2.3.4", "login", limit)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "1.2.3.4", "login"))

	decision, err := svc.Check(ctx, "1.2.3.4", "login", limit)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}
