// Package ratelimit implements a fixed-window request limiter backed by
// Redis, shared between all instances of the service.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter counts requests per key in fixed time windows.
type Limiter struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewLimiter creates a Limiter on the given Redis client.
func NewLimiter(client *redis.Client, prefix string, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, prefix: prefix, logger: logger.Named("rate_limiter")}
}

// Allow reports whether the request under the given key fits into the
// current window. The first request of a window sets the window's expiry.
// Redis outages fail open: limiting is protection, not a correctness
// requirement.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, time.Now().Unix()/int64(window.Seconds()))

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return true, err
	}

	return count.Val() <= int64(limit), nil
}
