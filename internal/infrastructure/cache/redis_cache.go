package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sistersconnect/backend/internal/domain"
)

const keyPrefix = "matches:"

// RedisCache is the Redis-backed match result cache. Entries expire
// server-side via TTL, so invalidation only has to handle explicit
// profile changes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]*domain.MatchScore, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var results []*domain.MatchScore
	if err := json.Unmarshal(raw, &results); err != nil {
		// Corrupted entry; treat as a miss and let the write path replace it.
		return nil, false, nil
	}
	return results, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, results []*domain.MatchScore) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err()
}

func (c *RedisCache) DeleteByUser(ctx context.Context, userID string) error {
	pattern := keyPrefix + userID + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
