package llm

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores raw model replies keyed by prompt.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CacheKey derives a stable key for a model and prompt pair.
func CacheKey(req Request) string {
	sum := sha256.New()
	for _, part := range []string{req.Model, req.System, req.User} {
		sum.Write([]byte(part))
		sum.Write([]byte{0})
	}
	return "ddqcheck:llm:" + hex.EncodeToString(sum.Sum(nil))
}

type memoryEntry struct {
	key     string
	value   string
	expires time.Time
	element *list.Element
}

// MemoryCache is an in-process LRU with per-entry expiry.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*memoryEntry
	order    *list.List
	now      func() time.Time
}

// NewMemoryCache creates an LRU holding up to capacity replies. A zero ttl keeps
// entries until they are evicted.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity <= 0 {
		capacity = 512
	}
	return &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*memoryEntry, capacity),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns a live entry and marks it recently used.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		if ent.expires.IsZero() || c.now().Before(ent.expires) {
			c.order.MoveToFront(ent.element)
			return ent.value, true, nil
		}
		c.removeEntry(ent)
	}
	return "", false, nil
}

// Set stores value, evicting the least recently used entry when full.
func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.value = value
		ent.expires = c.expiry()
		c.order.MoveToFront(ent.element)
		return nil
	}
	if len(c.items) >= c.capacity {
		c.evictOldest()
	}
	elem := c.order.PushFront(key)
	c.items[key] = &memoryEntry{key: key, value: value, expires: c.expiry(), element: elem}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *MemoryCache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *MemoryCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	if ent, ok := c.items[elem.Value.(string)]; ok {
		c.removeEntry(ent)
	}
}

func (c *MemoryCache) removeEntry(ent *memoryEntry) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}

// RedisCache stores replies in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis URL and verifies it with PING.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get reads a cached reply.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

// Set writes a reply with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Cache kinds accepted by NewCache.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheOptions selects and sizes a reply cache.
type CacheOptions struct {
	Kind     string
	RedisURL string
	TTL      time.Duration
	Size     int
}

// NewCache opens the configured cache. It returns a nil cache for kind none.
// The returned close function is always safe to call.
func NewCache(ctx context.Context, opts CacheOptions) (Cache, func() error, error) {
	noop := func() error { return nil }
	switch opts.Kind {
	case "", CacheNone:
		return nil, noop, nil
	case CacheMemory:
		return NewMemoryCache(opts.Size, opts.TTL), noop, nil
	case CacheRedis:
		cache, err := NewRedisCache(ctx, opts.RedisURL, opts.TTL)
		if err != nil {
			return nil, noop, err
		}
		return cache, cache.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported cache kind %q", opts.Kind)
	}
}
