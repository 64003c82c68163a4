// Package cache provides the Redis-backed session cache and rate limiter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key this package writes.
const DefaultKeyPrefix = "minutes:"

// Cache wraps a Redis client shared by the session cache and the limiter.
type Cache struct {
	client *redis.Client
	prefix string
}

// Option customizes a Cache.
type Option func(*options)

type options struct {
	poolSize  int
	keyPrefix string
}

// WithPoolSize overrides the connection pool size.
func WithPoolSize(n int) Option {
	return func(o *options) { o.poolSize = n }
}

// WithKeyPrefix replaces DefaultKeyPrefix, so several deployments can share one Redis.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) { o.keyPrefix = prefix }
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, redisURL string, opts ...Option) (*Cache, error) {
	o := options{poolSize: 10, keyPrefix: DefaultKeyPrefix}
	for _, fn := range opts {
		fn(&o)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.PoolSize = o.poolSize
	opt.MinIdleConns = 1
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client, prefix: o.keyPrefix}, nil
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client.
func (c *Cache) Client() *redis.Client {
	return c.client
}
