package cache

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultKeyPrefix namespaces the cache keys in a shared Redis.
const DefaultKeyPrefix = "i18nsync:"

// RedisCache is a Redis-backed translation cache, shared by every run that
// points at the same server.
type RedisCache struct {
	client    redis.Cmdable
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	logger    zerolog.Logger
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       time.Duration // 0 means no expiration
	KeyPrefix string        // Prefix for all keys (default: "i18nsync:")
	Timeout   time.Duration // Per-operation timeout (default: 5s)
	Logger    zerolog.Logger
}

// NewRedisCache connects to the server at cfg.URL and verifies it answers.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &i18nsync.CacheError{Message: "invalid redis URL", Cause: err}
	}

	c := NewRedisCacheFromClient(redis.NewClient(opts), cfg.TTL, cfg.KeyPrefix)
	c.logger = cfg.Logger
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}

	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, &i18nsync.CacheError{Message: "redis not reachable", Cause: err}
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing client.
func NewRedisCacheFromClient(client redis.Cmdable, ttl time.Duration, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		timeout:   5 * time.Second,
		logger:    zerolog.Nop(),
	}
}

// Get retrieves a value from Redis. Errors are reported as a miss.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("Redis get failed")
		return "", false
	}
	return val, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err(); err != nil {
		return &i18nsync.CacheError{Message: "redis set failed", Cause: err}
	}
	return nil
}

// Entries scans every key under the prefix and returns the entries sorted
// by key, without the prefix.
func (c *RedisCache) Entries(ctx context.Context) ([]i18nsync.KeyEntry, error) {
	var out []i18nsync.KeyEntry
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, &i18nsync.CacheError{Message: "redis scan failed", Cause: err}
		}
		for _, full := range keys {
			val, err := c.client.Get(ctx, full).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, &i18nsync.CacheError{Message: "redis get failed", Cause: err}
			}
			out = append(out, i18nsync.KeyEntry{Key: strings.TrimPrefix(full, c.keyPrefix), Value: val})
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	slices.SortFunc(out, func(a, b i18nsync.KeyEntry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out, nil
}

// Close closes the Redis connection if the client owns one.
func (c *RedisCache) Close() error {
	if closer, ok := c.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// Verify RedisCache implements TranslationCache
var _ TranslationCache = (*RedisCache)(nil)
