package routes

import (
	"context"
	"time"

	"github.com/angelmondragon/foodorder-backend/pkg/redis"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type idempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}

func rateLimitStore(c *redis.Client) rateLimiter {
	if c == nil {
		return nil
	}
	return c
}

func idempotencyBackend(c *redis.Client) idempotencyStore {
	if c == nil {
		return nil
	}
	return c
}
