// internal/services/reference_cache.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/config"
)

const (
	CacheKeyCategories = "commodity-admin:refs:categories"
	CacheKeyBrands     = "commodity-admin:refs:brands"
)

// ReferenceCache holds catalog reference lists (categories, brands) shared by
// every admin session. Any category or brand mutation invalidates it.
type ReferenceCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}

// NewReferenceCache returns a redis-backed cache when redis is enabled and
// reachable, and an in-process cache otherwise.
func NewReferenceCache(cfg config.RedisConfig) ReferenceCache {
	if !cfg.Enabled {
		return NewMemoryReferenceCache(cfg.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).WithField("addr", cfg.Addr()).Warn("Redis unavailable, using in-memory reference cache")
		client.Close()
		return NewMemoryReferenceCache(cfg.TTL)
	}

	logrus.WithField("addr", cfg.Addr()).Info("Connected to Redis reference cache")
	return NewRedisReferenceCache(client, cfg.TTL)
}

// ── In-memory ───────────────────────────────────────────────────────────────

type memoryEntry struct {
	data      []byte
	fetchedAt time.Time
}

type MemoryReferenceCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryReferenceCache(ttl time.Duration) *MemoryReferenceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryReferenceCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryReferenceCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *MemoryReferenceCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, fetchedAt: c.now()}
	c.mu.Unlock()
	return nil
}

func (c *MemoryReferenceCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]memoryEntry)
		return nil
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// ── Redis ───────────────────────────────────────────────────────────────────

type RedisReferenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReferenceCache(client *redis.Client, ttl time.Duration) *RedisReferenceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisReferenceCache{client: client, ttl: ttl}
}

func (c *RedisReferenceCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisReferenceCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisReferenceCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		keys = []string{CacheKeyCategories, CacheKeyBrands}
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisReferenceCache) Close() error {
	return c.client.Close()
}
