package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobeval/pkg/platform/sentinel"
)

const keyPrefix = "jobeval:identity:"

// RedisCache shares answers between service instances. Keys hold a SHA-256
// of the identity number; values are "1" or "0"; expiry is native TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Save(ctx context.Context, identityNumber string, valid bool) error {
	value := "0"
	if valid {
		value = "1"
	}
	if err := c.client.Set(ctx, Key(identityNumber), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("save identity validity: %w", err)
	}
	return nil
}

func (c *RedisCache) Find(ctx context.Context, identityNumber string) (bool, error) {
	value, err := c.client.Get(ctx, Key(identityNumber)).Result()
	if errors.Is(err, redis.Nil) {
		return false, sentinel.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("find identity validity: %w", err)
	}
	switch value {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		// Unknown payloads are treated as a miss so the registry is asked again.
		return false, sentinel.ErrNotFound
	}
}

// Key returns the redis key for an identity number.
func Key(identityNumber string) string {
	return keyPrefix + digest(identityNumber)
}
