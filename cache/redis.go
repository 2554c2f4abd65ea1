package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces sitekit entries in a shared Redis.
const defaultKeyPrefix = "sitekit:"

// Redis is a Redis-backed cache, for sharing translation results across
// machines or CI runs.
type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig configures the Redis cache.
type RedisConfig struct {
	// URL is the connection URL ("redis://host:6379/0").
	URL string
	// TTL bounds entry lifetime (0 = no expiry).
	TTL time.Duration
	// KeyPrefix overrides the default key namespace.
	KeyPrefix string
}

// NewRedis connects and pings the server before returning.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return NewRedisFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisFromClient wraps an existing client (used by tests with a mock).
func NewRedisFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *Redis {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{client: client, ttl: ttl, keyPrefix: keyPrefix}
}

// Get retrieves a value. Any Redis error degrades to a cache miss.
func (c *Redis) Get(key string) (string, bool) {
	val, err := c.client.Get(context.Background(), c.keyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value with the configured TTL.
func (c *Redis) Set(key, value string) error {
	return c.client.Set(context.Background(), c.keyPrefix+key, value, c.ttl).Err()
}

var _ Cache = (*Redis)(nil)
