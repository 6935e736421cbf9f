package processor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultCache stores a previously-computed result keyed by operation and
// content hash, with a TTL. Implementations must be safe for concurrent use.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key string, value string, ttl time.Duration)
}

// CacheKey hashes operation+content into a short, stable cache key.
func CacheKey(operation, content string) string {
	sum := sha256.Sum256([]byte(content))
	return operation + ":" + hex.EncodeToString(sum[:])[:16]
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// inProcessCache is the default result cache: a mutex-guarded map checked
// against wall-clock TTL on read, with expired entries swept lazily.
type inProcessCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewInProcessCache builds the default, in-memory result cache.
func NewInProcessCache() ResultCache {
	return &inProcessCache{entries: make(map[string]cacheEntry)}
}

func (c *inProcessCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

func (c *inProcessCache) Put(_ context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

// redisCache is an optional shared cache backend for hosts running more
// than one processor instance against the same Redis deployment.
type redisCache struct {
	client redis.UniversalClient
}

// NewRedisCache builds a Redis-backed result cache.
func NewRedisCache(addr string) ResultCache {
	return &redisCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, "memoria:ai_cache:"+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisCache) Put(ctx context.Context, key, value string, ttl time.Duration) {
	c.client.Set(ctx, "memoria:ai_cache:"+key, value, ttl)
}
