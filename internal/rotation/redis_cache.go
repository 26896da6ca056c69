package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

const redisCachePrefix = "rotation_cache:"

// RedisCache caches rotation state in Redis with a TTL.
type RedisCache struct {
	client rueidis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a RedisCache. A zero TTL keeps entries until evicted.
func NewRedisCache(client rueidis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Do(ctx, c.client.B().Get().Key(redisCachePrefix+key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to get cached rotation state: %w", err)
	}

	return value, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	var cmd rueidis.Completed
	if c.ttl > 0 {
		cmd = c.client.B().Set().Key(redisCachePrefix + key).Value(value).Ex(c.ttl).Build()
	} else {
		cmd = c.client.B().Set().Key(redisCachePrefix + key).Value(value).Build()
	}

	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to cache rotation state: %w", err)
	}

	return nil
}
