// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietvo/scolara/internal/school/identity"
)

func newRedisRepository(t *testing.T) (*identity.RedisRevokedTokenRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return identity.NewRevokedTokenRepository(client), server
}

/*
TestRedisRevokedTokenRepository_RevokeAndCheck covers the basic revocation
round trip against an embedded Redis.
*/
func TestRedisRevokedTokenRepository_RevokeAndCheck(t *testing.T) {
	repository, _ := newRedisRepository(t)
	ctx := context.Background()

	revoked, err := repository.IsRevoked(ctx, "tok-alive")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repository.Revoke(ctx, "tok-alive", time.Hour))

	revoked, err = repository.IsRevoked(ctx, "tok-alive")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other tokens are unaffected.
	revoked, err = repository.IsRevoked(ctx, "tok-other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

/*
TestRedisRevokedTokenRepository_EntryExpires verifies the revocation entry
dies with the token's own lifetime.
*/
func TestRedisRevokedTokenRepository_EntryExpires(t *testing.T) {
	repository, server := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Revoke(ctx, "tok-short", time.Minute))

	server.FastForward(2 * time.Minute)

	revoked, err := repository.IsRevoked(ctx, "tok-short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

/*
TestRedisRevokedTokenRepository_TokenNotStoredRaw checks the raw bearer
credential never appears as a key.
*/
func TestRedisRevokedTokenRepository_TokenNotStoredRaw(t *testing.T) {
	repository, server := newRedisRepository(t)

	require.NoError(t, repository.Revoke(context.Background(), "raw-bearer-token", time.Hour))

	for _, key := range server.Keys() {
		assert.NotContains(t, key, "raw-bearer-token")
	}
}
