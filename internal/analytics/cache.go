package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores summaries by key. Implementations are best effort: a
// failing cache behaves like an empty one.
type Cache interface {
	Get(ctx context.Context, key string) (*Summary, bool)
	Set(ctx context.Context, key string, s *Summary)
	Invalidate(ctx context.Context)
}

// NopCache never holds anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Summary, bool) { return nil, false }
func (NopCache) Set(context.Context, string, *Summary)        {}
func (NopCache) Invalidate(context.Context)                   {}

const keyPrefix = "barangay:analytics:"

// RedisCache keeps summaries in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisCache connects to the Redis server at url (redis://host:port/db).
func NewRedisCache(url string, ttl time.Duration, log *zap.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithClient(redis.NewClient(opts), ttl, log), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Summary, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("analytics cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var s Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Warn("analytics cache entry unreadable", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &s, true
}

func (c *RedisCache) Set(ctx context.Context, key string, s *Summary) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("analytics cache write failed", zap.Error(err))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("analytics cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
