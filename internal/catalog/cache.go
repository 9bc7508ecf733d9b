package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

// ErrCacheMiss is returned when the cache holds no entry for a key.
var ErrCacheMiss = errors.New("catalog cache miss")

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(parts ...string) string
}

// RedisCache stores catalog reads as JSON with a fixed TTL.
type RedisCache struct {
	store kvStore
	ttl   time.Duration
}

func NewRedisCache(store kvStore, ttl time.Duration) *RedisCache {
	return &RedisCache{store: store, ttl: ttl}
}

func (c *RedisCache) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.get(ctx, c.store.CatalogKey("product", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *RedisCache) SetProduct(ctx context.Context, product *Product) error {
	return c.set(ctx, c.store.CatalogKey("product", product.ID.String()), product)
}

func (c *RedisCache) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, c.store.CatalogKey("categories"), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *RedisCache) SetCategories(ctx context.Context, categories []Category) error {
	return c.set(ctx, c.store.CatalogKey("categories"), categories)
}

func (c *RedisCache) get(ctx context.Context, key string, dest any) error {
	raw, err := c.store.Get(ctx, key)
	if redis.IsNil(err) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.store.Set(ctx, key, payload, c.ttl)
}
