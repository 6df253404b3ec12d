package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
)

const (
	accessKeyPrefix = "ticktrack:access:"
	// DefaultAccessTTL bounds how stale a cached level may be when an
	// invalidation is lost.
	DefaultAccessTTL = 60 * time.Second
)

// AccessCache stores the derived subscription access level per tenant.
type AccessCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewAccessCache(client redis.UniversalClient, ttl time.Duration) *AccessCache {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &AccessCache{client: client, ttl: ttl}
}

func (c *AccessCache) key(tenantID uint) string {
	return accessKeyPrefix + strconv.FormatUint(uint64(tenantID), 10)
}

func (c *AccessCache) Get(ctx context.Context, tenantID uint) (vo.AccessLevel, bool, error) {
	val, err := c.client.Get(ctx, c.key(tenantID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read access level: %w", err)
	}
	level := vo.AccessLevel(val)
	if !level.IsValid() {
		// Unknown values are treated as a miss and overwritten on the next Set.
		return "", false, nil
	}
	return level, true, nil
}

func (c *AccessCache) Set(ctx context.Context, tenantID uint, level vo.AccessLevel) error {
	if err := c.client.Set(ctx, c.key(tenantID), string(level), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache access level: %w", err)
	}
	return nil
}

func (c *AccessCache) Invalidate(ctx context.Context, tenantID uint) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate access level: %w", err)
	}
	return nil
}
