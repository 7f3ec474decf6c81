package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fournil-next/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the redis client with JSON helpers and a key prefix. A nil
// receiver or disabled cache degrades to misses, never errors.
type Cache struct {
	client *redis.Client
	prefix string
}

// ErrMiss marks an absent cache entry.
var ErrMiss = errors.New("cache miss")

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New connects to redis and returns the cache. Connection failures are
// logged and yield a disabled cache so the API keeps serving.
func New(opts Options) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis unavailable, cache disabled", "addr", opts.Addr, "error", err)
		return nil
	}
	return &Cache{client: client, prefix: opts.Prefix}
}

// Enabled reports whether the cache is usable.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Client exposes the underlying redis client for rate limiting scripts.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

// GetJSON loads and decodes one entry. Returns ErrMiss when absent or the
// cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) error {
	if !c.Enabled() {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// SetJSON encodes and stores one entry with a TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), raw, ttl).Err()
}

// Del removes entries.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}
	return c.client.Del(ctx, prefixed...).Err()
}
