// Package cache provides the optional Redis-backed evaluation cache.
// Correctness never depends on it: scoring reads through on any miss or
// error, and writers invalidate on every answer or lifecycle mutation.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	id "fieldaudit/pkg/domain"
)

// RedisCache stores serialized evaluations keyed by checklist id.
type RedisCache struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func key(checklistID id.ChecklistID) string {
	return "fieldaudit:evaluation:" + checklistID.String()
}

func (c *RedisCache) Get(ctx context.Context, checklistID id.ChecklistID) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key(checklistID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (c *RedisCache) Set(ctx context.Context, checklistID id.ChecklistID, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key(checklistID), payload, ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, checklistID id.ChecklistID) error {
	return c.client.Del(ctx, key(checklistID)).Err()
}

// Noop satisfies the cache interface when Redis is not configured.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Get(context.Context, id.ChecklistID) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, id.ChecklistID, []byte, time.Duration) error { return nil }

func (Noop) Invalidate(context.Context, id.ChecklistID) error { return nil }
