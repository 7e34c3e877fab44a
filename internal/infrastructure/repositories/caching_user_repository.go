package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/core/ports"
)

var userSF singleflight.Group

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingUserRepository decorates a UserRepository with a read-through
// cache. Lookups are coalesced with singleflight so a burst of requests for
// the same user hits the database once. Writes invalidate both the id and
// email entries.
type CachingUserRepository struct {
	inner ports.UserRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingUserRepository(inner ports.UserRepository, cache ports.Cache, ttl time.Duration) ports.UserRepository {
	return &CachingUserRepository{inner: inner, cache: cache, ttl: ttl}
}

func userIDKey(id uuid.UUID) string    { return "user:id:" + id.String() }
func userEmailKey(email string) string { return "user:email:" + email }

func (r *CachingUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	key := userIDKey(id)
	if v, ok := cacheGet[user.User](r.cache, ctx, key); ok {
		return v, nil
	}
	res, err, _ := userSF.Do(key, func() (any, error) {
		u, err := r.inner.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		cacheSetSilently(r.cache, ctx, key, u, r.ttl)
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	u, ok := res.(*user.User)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return u, nil
}

func (r *CachingUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	key := userEmailKey(email)
	if v, ok := cacheGet[user.User](r.cache, ctx, key); ok {
		return v, nil
	}
	u, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	cacheSetSilently(r.cache, ctx, key, u, r.ttl)
	return u, nil
}

func (r *CachingUserRepository) Create(ctx context.Context, u *user.User) error {
	return r.inner.Create(ctx, u)
}

func (r *CachingUserRepository) Update(ctx context.Context, u *user.User) error {
	if err := r.inner.Update(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u)
	return nil
}

func (r *CachingUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if u, err := r.inner.GetByID(ctx, id); err == nil {
		defer r.invalidate(ctx, u)
	}
	return r.inner.Delete(ctx, id)
}

func (r *CachingUserRepository) invalidate(ctx context.Context, u *user.User) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, userIDKey(u.ID))
	_ = r.cache.Delete(ctx, userEmailKey(u.Email))
}
