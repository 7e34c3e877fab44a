package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/ports"
)

const tokenPrefix = "storelaunch_tokens"

// TokenRedisRepository stores refresh tokens in Redis, keyed by SHA-256 hash
// so a datastore dump does not yield usable credentials. Entries expire with
// the token itself, so no background cleanup is needed.
type TokenRedisRepository struct {
	client redis.Cmdable
	logger *logrus.Logger
}

func NewTokenRedisRepository(client redis.Cmdable, logger *logrus.Logger) ports.TokenRepository {
	return &TokenRedisRepository{client: client, logger: logger}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}

func refreshKey(tokenHash string) string {
	return fmt.Sprintf("%s:refresh:%s", tokenPrefix, tokenHash)
}

func userTokensKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user:%s:refresh", tokenPrefix, userID)
}

func (r *TokenRedisRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}

	tokenHash := hashToken(token)
	stored := &ports.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token: %w", err)
	}

	if err := r.client.Set(ctx, refreshKey(tokenHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token in Redis: %w", err)
	}

	userKey := userTokensKey(userID)
	if err := r.client.SAdd(ctx, userKey, tokenHash).Err(); err != nil {
		return fmt.Errorf("failed to add refresh token to user mapping: %w", err)
	}
	_ = r.client.Expire(ctx, userKey, ttl+time.Hour)
	return nil
}

func (r *TokenRedisRepository) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	data, err := r.client.Get(ctx, refreshKey(hashToken(token))).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("refresh token not found or expired")
		}
		return nil, fmt.Errorf("failed to get refresh token from Redis: %w", err)
	}

	var stored ports.RefreshToken
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refresh token: %w", err)
	}
	return &stored, nil
}

func (r *TokenRedisRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	tokenHash := hashToken(token)

	stored, err := r.GetRefreshToken(ctx, token)
	if err == nil {
		_ = r.client.SRem(ctx, userTokensKey(stored.UserID), tokenHash).Err()
	}

	if err := r.client.Del(ctx, refreshKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token from Redis: %w", err)
	}
	return nil
}

// DeleteUserTokens removes every stored refresh token for a user, forcing
// re-authentication on all of their devices.
func (r *TokenRedisRepository) DeleteUserTokens(ctx context.Context, userID uuid.UUID) error {
	userKey := userTokensKey(userID)
	hashes, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to list user refresh tokens: %w", err)
	}

	for _, h := range hashes {
		if err := r.client.Del(ctx, refreshKey(h)).Err(); err != nil && r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID, "token_hash": h}).WithError(err).Warn("failed to delete user refresh token")
		}
	}
	if err := r.client.Del(ctx, userKey).Err(); err != nil {
		return fmt.Errorf("failed to delete user token mapping: %w", err)
	}
	return nil
}
