// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kietvo/scolara/internal/platform/constants"
)

// RedisRevokedTokenRepository implements [RevokedTokenRepository] using Redis.
//
// Tokens are stored hashed: the revocation list must not become a harvest of
// valid bearer credentials if the cache is compromised.
type RedisRevokedTokenRepository struct {
	client *redis.Client
}

// NewRevokedTokenRepository creates a Redis-backed [RevokedTokenRepository].
func NewRevokedTokenRepository(client *redis.Client) *RedisRevokedTokenRepository {
	return &RedisRevokedTokenRepository{client: client}
}

// Revoke records the token as revoked for the given TTL.
// The TTL matches the token's remaining lifetime, so entries clean themselves up.
func (repository *RedisRevokedTokenRepository) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	key := revocationKey(token)

	if err := repository.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoked_token_set_failed: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token is on the revocation list.
func (repository *RedisRevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := revocationKey(token)

	_, err := repository.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_revoked_token_get_failed: %w", err)
	}

	return true, nil
}

// revocationKey derives the Redis key from the SHA-256 of the raw token.
func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return constants.RedisPrefixRevokedToken + hex.EncodeToString(sum[:])
}
