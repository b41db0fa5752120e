// Copyright (c) 2026 Aeroray. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aeroray/storefront/internal/platform/constants"
)

// RedisTopCache implements [TopCache] backed by a shared Redis instance.
//
// # Failure Mode
//
// Every operation swallows Redis errors after logging them at debug level:
// a broken cache must never take the catalogue down, it only makes the
// top-rated list a little slower.
type RedisTopCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisTopCache creates a Redis-backed cache for the top-rated list.
func NewRedisTopCache(client *redis.Client, logger *slog.Logger) *RedisTopCache {
	return &RedisTopCache{client: client, logger: logger}
}

// GetTop returns the cached top-rated list, or (nil, false) on a miss or any
// Redis/decoding failure.
func (cache *RedisTopCache) GetTop(ctx context.Context) ([]*Product, bool) {
	payload, err := cache.client.Get(ctx, constants.RedisKeyTopProducts).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Debug("top_cache_read_failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var products []*Product
	if err := json.Unmarshal(payload, &products); err != nil {
		// A corrupt entry behaves like a miss and gets overwritten on the
		// next fill.
		cache.logger.Debug("top_cache_decode_failed", slog.String("error", err.Error()))
		return nil, false
	}

	return products, true
}

// SetTop stores the list for the given time-to-live.
func (cache *RedisTopCache) SetTop(ctx context.Context, products []*Product, ttl time.Duration) {
	payload, err := json.Marshal(products)
	if err != nil {
		cache.logger.Debug("top_cache_encode_failed", slog.String("error", err.Error()))
		return
	}

	if err := cache.client.Set(ctx, constants.RedisKeyTopProducts, payload, ttl).Err(); err != nil {
		cache.logger.Debug("top_cache_write_failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached list after a product mutation.
func (cache *RedisTopCache) Invalidate(ctx context.Context) {
	if err := cache.client.Del(ctx, constants.RedisKeyTopProducts).Err(); err != nil {
		cache.logger.Debug("top_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}
