// Package cache provides the Redis-backed product catalog cache.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"funnel-svc/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis connects and pings the Redis server.
func InitRedis(addr string, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	logger.Info("Connected to Redis", zap.String("addr", addr))
	return client, nil
}

// ProductCache caches catalog reads as JSON with a TTL. A nil receiver or
// nil client behaves as a permanent miss, so the service runs without Redis.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

func key(id string) string { return "product:" + id }

func (c *ProductCache) Get(ctx context.Context, id string) (*models.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Redis get failed", zap.Error(err))
		}
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) {
	if c == nil || c.client == nil {
		return
	}
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(p.ID), b, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis set failed", zap.Error(err))
	}
}
