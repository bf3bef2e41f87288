// Package ratelimit provides per-key request limiters backed by process
// memory or Redis.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrLimited is reported when a request is rejected by a limiter.
var ErrLimited = errors.New("rate limit exceeded")

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter admits or rejects one request for key under a budget of limit
// requests per window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}
