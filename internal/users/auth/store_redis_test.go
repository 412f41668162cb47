// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalov/contactio/internal/platform/sec"
	"github.com/dkovalov/contactio/internal/users/auth"
)

func newRedisSessionCache(t *testing.T) (*auth.RedisSessionCache, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewSessionCache(client), server
}

/*
TestRedisSessionCache_Blacklist tests the revoked-token blacklist: presence
checks and TTL expiry.
*/
func TestRedisSessionCache_Blacklist(t *testing.T) {
	cache, server := newRedisSessionCache(t)
	ctx := context.Background()

	blacklisted, err := cache.IsBlacklisted(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, cache.Blacklist(ctx, "some-token", time.Minute))

	blacklisted, err = cache.IsBlacklisted(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// Entries vanish with the token's remaining lifetime
	server.FastForward(2 * time.Minute)

	blacklisted, err = cache.IsBlacklisted(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

/*
TestRedisSessionCache_Identity tests the identity cache round trip and the
miss semantics.
*/
func TestRedisSessionCache_Identity(t *testing.T) {
	cache, server := newRedisSessionCache(t)
	ctx := context.Background()

	// A miss is nil without an error
	identity, err := cache.GetCachedIdentity(ctx, "unknown-token")
	require.NoError(t, err)
	assert.Nil(t, identity)

	stored := &sec.Identity{
		ID:        "user-123",
		Username:  "dmytro",
		Email:     "dmytro@example.com",
		Confirmed: true,
		Role:      sec.RoleUser,
	}
	require.NoError(t, cache.CacheIdentity(ctx, "access-token", stored, time.Minute))

	identity, err = cache.GetCachedIdentity(ctx, "access-token")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "user-123", identity.ID)
	assert.Equal(t, "dmytro", identity.Username)
	assert.Equal(t, sec.RoleUser, identity.Role)

	// The entry expires with the token
	server.FastForward(2 * time.Minute)

	identity, err = cache.GetCachedIdentity(ctx, "access-token")
	require.NoError(t, err)
	assert.Nil(t, identity)
}

/*
TestRedisSessionCache_Identity_Corrupt tests that an undecodable cache entry
is treated as a miss, never as a failure.
*/
func TestRedisSessionCache_Identity_Corrupt(t *testing.T) {
	cache, server := newRedisSessionCache(t)

	require.NoError(t, server.Set("user:broken-token", "{not-json"))

	identity, err := cache.GetCachedIdentity(context.Background(), "broken-token")
	require.NoError(t, err)
	assert.Nil(t, identity)
}

/*
TestRedisSessionCache_KeyIsolation tests that blacklist and identity entries
never collide for the same token.
*/
func TestRedisSessionCache_KeyIsolation(t *testing.T) {
	cache, _ := newRedisSessionCache(t)
	ctx := context.Background()

	require.NoError(t, cache.CacheIdentity(ctx, "shared-token", &sec.Identity{ID: "u1"}, time.Minute))

	blacklisted, err := cache.IsBlacklisted(ctx, "shared-token")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}
