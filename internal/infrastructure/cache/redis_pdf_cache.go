package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "prodsheet:pdf:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisPDFCache shares rendered PDFs between service instances.
type RedisPDFCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisPDFCache connects to Redis and checks the connection.
func NewRedisPDFCache(ctx context.Context, cfg RedisConfig) (*RedisPDFCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisPDFCacheWithClient(client, ""), nil
}

// NewRedisPDFCacheWithClient wraps an existing client
func NewRedisPDFCacheWithClient(client redis.UniversalClient, keyPrefix string) *RedisPDFCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisPDFCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisPDFCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached PDF: %w", err)
	}
	return data, true, nil
}

func (c *RedisPDFCache) Set(ctx context.Context, key string, pdf []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, pdf, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache PDF: %w", err)
	}
	return nil
}

func (c *RedisPDFCache) Close() error {
	return c.client.Close()
}

var _ PDFCache = (*RedisPDFCache)(nil)
