package ratelimit

import (
	"context"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// MemoryLimiterConfig configures a MemoryLimiter.
type MemoryLimiterConfig struct {
	Now     func() time.Time
	MaxKeys int
}

type bucket struct {
	limiter *rate.Limiter
	limit   int
	window  time.Duration
}

// MemoryLimiter is a token bucket per key. Buckets refill continuously at
// limit/window and hold at most limit tokens. The least recently seen keys
// are evicted once MaxKeys buckets exist.
type MemoryLimiter struct {
	now     func() time.Time
	buckets *lru.Cache[string, *bucket]
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter creates a MemoryLimiter.
func NewMemoryLimiter(cfg MemoryLimiterConfig) (*MemoryLimiter, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	cache, err := lru.New[string, *bucket](cfg.MaxKeys)
	if err != nil {
		return nil, err
	}
	return &MemoryLimiter{now: cfg.Now, buckets: cache}, nil
}

// Allow implements Limiter.
func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	if window <= 0 {
		window = time.Second
	}
	now := m.now()
	b := m.bucketFor(key, limit, window)

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	remaining := int(math.Floor(tokens))
	if remaining < 0 {
		remaining = 0
	}

	// Time until one more token is available; zero when one already is.
	perToken := window / time.Duration(limit)
	resetAt := now
	if tokens < 1 {
		resetAt = now.Add(time.Duration((1 - tokens) * float64(perToken)))
	}

	return Decision{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (m *MemoryLimiter) bucketFor(key string, limit int, window time.Duration) *bucket {
	if b, ok := m.buckets.Get(key); ok && b.limit == limit && b.window == window {
		return b
	}
	fresh := &bucket{
		limiter: rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), limit),
		limit:   limit,
		window:  window,
	}
	// A concurrent caller may have created the bucket first; use theirs.
	prev, ok, _ := m.buckets.PeekOrAdd(key, fresh)
	if !ok {
		return fresh
	}
	if prev.limit == limit && prev.window == window {
		return prev
	}
	m.buckets.Add(key, fresh)
	return fresh
}

// Len returns the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	return m.buckets.Len()
}
