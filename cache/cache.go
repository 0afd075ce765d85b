// Package cache provides a small read-through cache for hot reference
// data (the active fee config and property rows). The cache is strictly
// best-effort: a nil client, a down Redis, or a marshalling problem all
// degrade to a miss and the caller falls through to the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbianoutech/roomstay-backend/models"
)

const (
	feeConfigKey   = "feeconfig:active"
	propertyKeyFmt = "property:%d"

	opTimeout = 2 * time.Second
)

// InitRedis connects to Redis using REDIS_HOST/REDIS_PORT/REDIS_PASSWORD
func InitRedis() (*redis.Client, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// Cache wraps a Redis client. A nil *Cache or nil client is valid and
// behaves as an always-miss cache.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache with the given TTL for all entries
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

// GetFeeConfig returns the cached active fee config, if present
func (c *Cache) GetFeeConfig() (*models.FeeConfig, bool) {
	var cfg models.FeeConfig
	if !c.get(feeConfigKey, &cfg) {
		return nil, false
	}
	return &cfg, true
}

// SetFeeConfig caches the active fee config
func (c *Cache) SetFeeConfig(cfg *models.FeeConfig) {
	c.set(feeConfigKey, cfg)
}

// GetProperty returns a cached property, if present
func (c *Cache) GetProperty(propertyID int64) (*models.Property, bool) {
	var p models.Property
	if !c.get(fmt.Sprintf(propertyKeyFmt, propertyID), &p) {
		return nil, false
	}
	return &p, true
}

// SetProperty caches a property row
func (c *Cache) SetProperty(p *models.Property) {
	c.set(fmt.Sprintf(propertyKeyFmt, p.ID), p)
}

func (c *Cache) get(key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *Cache) set(key string, value interface{}) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	c.rdb.Set(ctx, key, data, c.ttl)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
