package service

import (
	"context"
	"time"

	"quiz-digest/internal/cache"
	"quiz-digest/internal/domain"
)

// GenerationLimiter caps how many quizzes one identity may generate per window.
type GenerationLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

type cacheGenerationLimiter struct {
	cache  domain.Cache
	limit  int64
	window time.Duration
}

type noopGenerationLimiter struct{}

// NewGenerationLimiter returns a fixed-window limiter, or one that allows
// everything when c is nil or limit is not positive.
func NewGenerationLimiter(c domain.Cache, limit int, window time.Duration) GenerationLimiter {
	if c == nil || limit <= 0 || window <= 0 {
		return noopGenerationLimiter{}
	}
	return &cacheGenerationLimiter{cache: c, limit: int64(limit), window: window}
}

func (noopGenerationLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}

// Allow implements GenerationLimiter
func (l *cacheGenerationLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := cache.GenerateCacheKey("generation", "ratelimit", userID)

	count, err := l.cache.IncrWithTTL(ctx, key, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}
