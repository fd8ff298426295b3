package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/furniflow/backend/internal/infrastructure/config"
)

// PermissionCache caches the permission code set of a role so the HTTP
// permission middleware does not hit the database on every request.
type PermissionCache interface {
	// Get returns the cached permission codes, with found=false on a miss
	Get(ctx context.Context, roleCode string) (perms []string, found bool, err error)
	// Set stores the permission codes for a role
	Set(ctx context.Context, roleCode string, perms []string) error
	// Invalidate drops a role's entry, called when the role is updated
	Invalidate(ctx context.Context, roleCode string) error
}

// NewRedisClient connects a Redis client from configuration, verifying
// the connection with a ping.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisPermissionCache stores permission sets in Redis as JSON arrays
type RedisPermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPermissionCache creates a RedisPermissionCache
func NewRedisPermissionCache(client *redis.Client, ttl time.Duration) *RedisPermissionCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &RedisPermissionCache{client: client, ttl: ttl}
}

func permissionKey(roleCode string) string {
	return "role:permissions:" + roleCode
}

func (c *RedisPermissionCache) Get(ctx context.Context, roleCode string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, permissionKey(roleCode)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read permission cache: %w", err)
	}

	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		// Corrupt entry, treat as miss
		return nil, false, nil
	}
	return perms, true, nil
}

func (c *RedisPermissionCache) Set(ctx context.Context, roleCode string, perms []string) error {
	raw, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, permissionKey(roleCode), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write permission cache: %w", err)
	}
	return nil
}

func (c *RedisPermissionCache) Invalidate(ctx context.Context, roleCode string) error {
	if err := c.client.Del(ctx, permissionKey(roleCode)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate permission cache: %w", err)
	}
	return nil
}

var _ PermissionCache = (*RedisPermissionCache)(nil)

type permissionEntry struct {
	perms     []string
	expiresAt time.Time
}

// InMemoryPermissionCache is the fallback used when Redis is disabled
type InMemoryPermissionCache struct {
	mu      sync.RWMutex
	entries map[string]permissionEntry
	ttl     time.Duration
}

// NewInMemoryPermissionCache creates an InMemoryPermissionCache
func NewInMemoryPermissionCache(ttl time.Duration) *InMemoryPermissionCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &InMemoryPermissionCache{
		entries: make(map[string]permissionEntry),
		ttl:     ttl,
	}
}

func (c *InMemoryPermissionCache) Get(ctx context.Context, roleCode string) ([]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[roleCode]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.perms, true, nil
}

func (c *InMemoryPermissionCache) Set(ctx context.Context, roleCode string, perms []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[roleCode] = permissionEntry{
		perms:     perms,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

func (c *InMemoryPermissionCache) Invalidate(ctx context.Context, roleCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, roleCode)
	return nil
}

var _ PermissionCache = (*InMemoryPermissionCache)(nil)
