package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/logger"
)

const redisKeyPrefix = "og-claim:ratelimit:"

// RedisLimiter is a fixed window limiter whose counters live in Redis,
// so every replica shares the same windows
type RedisLimiter struct {
	client adapter.RedisClient
}

// NewRedisLimiter creates a Redis backed limiter
func NewRedisLimiter(client adapter.RedisClient) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Allow implements Limiter. Redis failures fail open.
func (l *RedisLimiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, error) {
	count, _, err := l.client.IncrWindow(ctx, redisKeyPrefix+key, window)
	if err != nil {
		logger.WarnCtx(ctx, "Rate limit backend unavailable, allowing request",
			zap.String("key", key),
			zap.Error(err))
		return true, nil
	}

	return count <= int64(max), nil
}
