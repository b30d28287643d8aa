package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a request identified by key fits in its fixed window
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	// Allow counts one request for key and reports whether the count is within max for the current window
	Allow(ctx context.Context, key string, window time.Duration, max int) (bool, error)
}

// Backend names the limiter implementation selected by configuration
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)
