package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCatalogProduct retrieves a cached catalog product body by numeric id.
// Returns redis.Nil-wrapped error on cache miss.
func (c *Client) GetCatalogProduct(ctx context.Context, productID string) ([]byte, error) {
	key := fmt.Sprintf("catalog:product:%s", productID)
	return c.rdb.Get(ctx, key).Bytes()
}

// IsCacheMiss reports whether an error from GetCatalogProduct is a plain miss
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}

// SetCatalogProduct caches a catalog product body with a TTL
func (c *Client) SetCatalogProduct(ctx context.Context, productID string, body []byte, ttl time.Duration) error {
	key := fmt.Sprintf("catalog:product:%s", productID)
	return c.rdb.Set(ctx, key, body, ttl).Err()
}
