package domain

import (
	"context"
	"time"
)

// Cache is the key-value port backing the generation rate limiter.
type Cache interface {
	// IncrWithTTL increments key and, in the same atomic step, gives it ttl
	// if it has no expiry yet. A missing key starts at 0.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping checks the health of the cache service.
	Ping(ctx context.Context) error
}
