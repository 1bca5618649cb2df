package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// EntitlementCache remembers (student, course) pairs known to be purchased.
// Purchases are never revoked, so a hit is always safe to trust. A miss says
// nothing and must fall through to the store.
type EntitlementCache interface {
	Owned(ctx context.Context, studentID, courseID string) (bool, error)
	MarkOwned(ctx context.Context, studentID, courseID string) error
}

type RedisEntitlementCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEntitlementCache(client *redis.Client, ttl time.Duration) *RedisEntitlementCache {
	return &RedisEntitlementCache{client: client, ttl: ttl}
}

func entitlementKey(studentID, courseID string) string {
	return "entitlement:" + studentID + ":" + courseID
}

func (c *RedisEntitlementCache) Owned(ctx context.Context, studentID, courseID string) (bool, error) {
	n, err := c.client.Exists(ctx, entitlementKey(studentID, courseID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisEntitlementCache) MarkOwned(ctx context.Context, studentID, courseID string) error {
	return c.client.Set(ctx, entitlementKey(studentID, courseID), "1", c.ttl).Err()
}

// Nop is used when no Redis is configured.
type Nop struct{}

func (Nop) Owned(context.Context, string, string) (bool, error) { return false, nil }
func (Nop) MarkOwned(context.Context, string, string) error { return nil }
