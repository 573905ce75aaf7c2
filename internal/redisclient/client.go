package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when no cached product list is stored.
var ErrCacheMiss = errors.New("product cache miss")

const (
	storagePrefix   = "storage:"
	productsKey     = "catalog:products"
	refreshLockKey  = "lock:catalog:refresh"
	maxJitterFactor = 10
)

type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection
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

// NewFromRedis wraps an existing go-redis client.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetItem reads a stored value. Missing keys return nil, nil.
func (c *Client) GetItem(ctx context.Context, key string) ([]byte, error) {
	value, err := c.rdb.Get(ctx, storagePrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// SetItem stores value under key without expiry.
func (c *Client) SetItem(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, storagePrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key
func (c *Client) RemoveItem(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, storagePrefix+key).Err()
}

// CacheProducts stores the product list. The TTL is stretched by up to a
// tenth so that replicas do not all expire together.
func (c *Client) CacheProducts(ctx context.Context, products []models.Product, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	return c.rdb.Set(ctx, productsKey, data, withJitter(ttl)).Err()
}

// CachedProducts returns the cached product list or ErrCacheMiss.
func (c *Client) CachedProducts(ctx context.Context) ([]models.Product, error) {
	data, err := c.rdb.Get(ctx, productsKey).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get products: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// InvalidateProducts drops the cached product list
func (c *Client) InvalidateProducts(ctx context.Context) error {
	return c.rdb.Del(ctx, productsKey).Err()
}

// AcquireRefreshLock takes the catalog refresh lock so that only one
// replica reloads after a catalog event.
func (c *Client) AcquireRefreshLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, refreshLockKey, "1", ttl).Result()
}

// ReleaseRefreshLock releases the catalog refresh lock
func (c *Client) ReleaseRefreshLock(ctx context.Context) error {
	return c.rdb.Del(ctx, refreshLockKey).Err()
}

func withJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	spread := int64(ttl) / maxJitterFactor
	if spread <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int63n(spread))
}
