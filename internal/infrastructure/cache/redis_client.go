package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/infrastructure/config"
)

// ErrKeyNotFound is returned when a key is absent from the cache.
var ErrKeyNotFound = fmt.Errorf("key not found in cache")

// RedisClient wraps the go-redis client with logging and connection
// management for the shared cache tier.
type RedisClient struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(cfg *config.RedisConfig, logger *zap.Logger) (*RedisClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	rc := &RedisClient{client: client, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Int("database", cfg.Database))

	return rc, nil
}

// Ping tests the Redis connection.
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get retrieves a value, returning ErrKeyNotFound for absent keys.
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		r.logger.Error("Redis GET failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// Set stores a value with a TTL.
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Redis SET failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes keys.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Redis DEL failed", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}

// Exists reports how many of the given keys exist.
func (r *RedisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	result, err := r.client.Exists(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("Redis EXISTS failed", zap.Strings("keys", keys), zap.Error(err))
		return 0, err
	}
	return result, nil
}

// Increment atomically increments a counter and refreshes its expiry.
func (r *RedisClient) Increment(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiration)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Redis INCR failed", zap.String("key", key), zap.Error(err))
		return 0, err
	}
	return incr.Val(), nil
}

// Close closes the underlying connection pool.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
