package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/ports/outbound"
)

// LayeredCache serves reads from the local LRU first and falls back to
// Redis, repopulating the local tier on a hit. Writes go to both tiers.
// When Redis is unavailable the local tier keeps serving, so a cache
// outage degrades hit rates rather than requests.
type LayeredCache struct {
	local    *LocalCache
	redis    *RedisClient
	localTTL time.Duration
	logger   *zap.Logger
}

// NewLayeredCache creates a layered cache. redis may be nil, in which
// case only the local tier is used.
func NewLayeredCache(local *LocalCache, redis *RedisClient, localTTL time.Duration, logger *zap.Logger) outbound.CacheRepository {
	if localTTL <= 0 {
		localTTL = 5 * time.Minute
	}
	return &LayeredCache{
		local:    local,
		redis:    redis,
		localTTL: localTTL,
		logger:   logger,
	}
}

func (c *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := c.local.Get(key); ok {
		return data, nil
	}

	if c.redis == nil {
		return nil, ErrKeyNotFound
	}

	data, err := c.redis.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	c.local.Set(key, data, c.localTTL)
	return data, nil
}

func (c *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	localTTL := c.localTTL
	if ttl > 0 && ttl < localTTL {
		localTTL = ttl
	}
	c.local.Set(key, value, localTTL)

	if c.redis == nil {
		return nil
	}

	if err := c.redis.Set(ctx, key, value, ttl); err != nil {
		c.logger.Warn("shared cache write failed, local tier still populated",
			zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (c *LayeredCache) Delete(ctx context.Context, key string) error {
	c.local.Delete(key)

	if c.redis == nil {
		return nil
	}
	return c.redis.Delete(ctx, key)
}

func (c *LayeredCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.local.Exists(key) {
		return true, nil
	}

	if c.redis == nil {
		return false, nil
	}

	n, err := c.redis.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
