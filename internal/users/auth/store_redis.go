// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkovalov/contactio/internal/platform/constants"
	"github.com/dkovalov/contactio/internal/platform/sec"
)

// RedisSessionCache implements SessionCache on Redis.
//
// Key taxonomy:
//   - bl:{token}   -> "1", present while a revoked access token would still
//     be valid by expiry alone.
//   - user:{token} -> JSON-encoded sec.Identity, TTL matching the remaining
//     token life.
type RedisSessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a new Redis-backed SessionCache.
func NewSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

/*
Blacklist marks an access token as revoked.

Description: The entry lives exactly as long as the token would have,
after which the JWT expiry itself rejects it.

Parameters:
  - context: context.Context
  - accessToken: string
  - ttl: time.Duration

Returns:
  - error: Cache write failures
*/
func (cache *RedisSessionCache) Blacklist(context context.Context, accessToken string, ttl time.Duration) error {
	key := constants.RedisPrefixBlacklist + accessToken

	if err := cache.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_cache_blacklist_failed: %w", err)
	}

	return nil
}

/*
IsBlacklisted reports whether an access token has been revoked.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - bool: true when the blacklist entry exists
  - error: Cache read failures
*/
func (cache *RedisSessionCache) IsBlacklisted(context context.Context, accessToken string) (bool, error) {
	key := constants.RedisPrefixBlacklist + accessToken

	count, err := cache.client.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_cache_blacklist_check_failed: %w", err)
	}

	return count > 0, nil
}

/*
CacheIdentity stores the resolved identity payload for an access token.

Parameters:
  - context: context.Context
  - accessToken: string
  - identity: *sec.Identity
  - ttl: time.Duration

Returns:
  - error: Serialization or cache write failures
*/
func (cache *RedisSessionCache) CacheIdentity(context context.Context, accessToken string, identity *sec.Identity, ttl time.Duration) error {
	key := constants.RedisPrefixUserCache + accessToken

	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("redis_session_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_cache_set_failed: %w", err)
	}

	return nil
}

/*
GetCachedIdentity returns the cached identity for an access token.

Description: A cache miss is not an error; the caller falls through to the
database. A corrupt payload is treated as a miss.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *sec.Identity: Cached payload, nil on miss
  - error: Cache read failures
*/
func (cache *RedisSessionCache) GetCachedIdentity(context context.Context, accessToken string) (*sec.Identity, error) {
	key := constants.RedisPrefixUserCache + accessToken

	payload, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_session_cache_get_failed: %w", err)
	}

	identity := &sec.Identity{}
	if err := json.Unmarshal(payload, identity); err != nil {
		// Treat an undecodable entry as a miss; the DB remains authoritative.
		return nil, nil
	}

	return identity, nil
}
