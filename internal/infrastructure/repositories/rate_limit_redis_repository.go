package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository implements rate limiting counter storage with
// Redis, for deployments where the limit must hold across instances.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r}
}

// Increment atomically bumps the counter for key in the current fixed
// window. Window alignment is truncated wall-clock time, so every instance
// agrees on the bucket.
func (repo *RateLimitRedisRepository) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(window)
	bucket := fmt.Sprintf("%s:%d", key, windowStart.Unix())

	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, window*2) // retain overlap window
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}

// Remove drops all buckets for key. Only the current bucket affects
// decisions; older ones expire on their own TTL.
func (repo *RateLimitRedisRepository) Remove(ctx context.Context, key string) error {
	iter := repo.r.Scan(ctx, 0, key+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := repo.r.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
