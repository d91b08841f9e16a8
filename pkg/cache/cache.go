package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tinytreats/internal/model"
	"tinytreats/pkg/config"

	"github.com/go-redis/redis/v8"
)

const productListKey = "products:all"

// ProductCache caches the full product list in Redis. A nil *ProductCache
// is valid and disables caching, so callers never need to branch on
// whether Redis is configured.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and returns a product cache. Returns (nil, nil)
// when no Redis address is configured.
func New(cfg *config.RedisConfig) (*ProductCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: "", // No password by default for local Redis
		DB:       0,  // Default DB
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ProductCache{client: client, ttl: cfg.CacheTTL}, nil
}

// Get returns the cached product list, or ok=false on a miss
func (c *ProductCache) Get(ctx context.Context) ([]model.Product, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		return nil, false
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false
	}
	return products, true
}

// Set stores the product list with the configured TTL
func (c *ProductCache) Set(ctx context.Context, products []model.Product) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productListKey, data, c.ttl).Err()
}

// Invalidate drops the cached list after any product mutation
func (c *ProductCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, productListKey).Err()
}

// Close closes the Redis connection
func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
