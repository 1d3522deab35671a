package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const limiterKey = "quizdigest:generation:ratelimit:user_1"

func TestGenerationLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("under the limit is allowed", func(t *testing.T) {
		c := new(MockCache)
		c.On("IncrWithTTL", ctx, limiterKey, time.Hour).Return(int64(1), nil)

		ok, err := NewGenerationLimiter(c, 2, time.Hour).Allow(ctx, "user_1")
		assert.NoError(t, err)
		assert.True(t, ok)
		c.AssertExpectations(t)
	})

	t.Run("at the limit is allowed", func(t *testing.T) {
		c := new(MockCache)
		c.On("IncrWithTTL", ctx, limiterKey, time.Hour).Return(int64(2), nil)

		ok, err := NewGenerationLimiter(c, 2, time.Hour).Allow(ctx, "user_1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("over the limit is rejected", func(t *testing.T) {
		c := new(MockCache)
		c.On("IncrWithTTL", ctx, limiterKey, time.Hour).Return(int64(3), nil)

		ok, err := NewGenerationLimiter(c, 2, time.Hour).Allow(ctx, "user_1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("backend error is reported", func(t *testing.T) {
		c := new(MockCache)
		c.On("IncrWithTTL", ctx, limiterKey, time.Hour).Return(int64(0), errors.New("connection refused"))

		_, err := NewGenerationLimiter(c, 2, time.Hour).Allow(ctx, "user_1")
		assert.Error(t, err)
	})

	t.Run("disabled without cache", func(t *testing.T) {
		ok, err := NewGenerationLimiter(nil, 2, time.Hour).Allow(ctx, "user_1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("disabled with zero limit", func(t *testing.T) {
		c := new(MockCache)
		ok, err := NewGenerationLimiter(c, 0, time.Hour).Allow(ctx, "user_1")
		assert.NoError(t, err)
		assert.True(t, ok)
		c.AssertNotCalled(t, "IncrWithTTL", ctx, limiterKey, time.Hour)
	})
}

// windowCache mimics Redis INCR + EXPIRE NX run as one transaction, with a
// controllable clock. failNext makes the next call fail without side effects.
type windowCache struct {
	mu       sync.Mutex
	now      time.Time
	counts   map[string]int64
	expires  map[string]time.Time
	failNext bool
}

func newWindowCache() *windowCache {
	return &windowCache{
		now:     time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
		counts:  map[string]int64{},
		expires: map[string]time.Time{},
	}
}

func (c *windowCache) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNext {
		c.failNext = false
		return 0, errors.New("i/o timeout")
	}
	if exp, ok := c.expires[key]; ok && !c.now.Before(exp) {
		delete(c.counts, key)
		delete(c.expires, key)
	}
	c.counts[key]++
	if _, ok := c.expires[key]; !ok {
		c.expires[key] = c.now.Add(ttl)
	}
	return c.counts[key], nil
}

func (c *windowCache) Ping(ctx context.Context) error { return nil }

func (c *windowCache) hasTTL(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.expires[key]
	return ok
}

func TestGenerationLimiter_WindowResetsAfterBackendFailure(t *testing.T) {
	ctx := context.Background()
	c := newWindowCache()
	limiter := NewGenerationLimiter(c, 2, time.Hour)

	c.failNext = true
	_, err := limiter.Allow(ctx, "user_1")
	require.Error(t, err)

	var allowed []bool
	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "user_1")
		require.NoError(t, err)
		allowed = append(allowed, ok)
	}
	assert.Equal(t, []bool{true, true, false}, allowed)
	assert.True(t, c.hasTTL(limiterKey), "counter must always carry an expiry")

	c.now = c.now.Add(time.Hour + time.Second)
	ok, err := limiter.Allow(ctx, "user_1")
	require.NoError(t, err)
	assert.True(t, ok, "a new window must admit the user again")
}
