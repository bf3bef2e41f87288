package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records token IDs that must be rejected before they expire.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevocationList keeps revoked token IDs until their expiry. Expired
// entries are dropped lazily on writes.
type MemoryRevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ RevocationList = (*MemoryRevocationList)(nil)

// NewMemoryRevocationList returns an empty list. A nil now uses time.Now.
func NewMemoryRevocationList(now func() time.Time) *MemoryRevocationList {
	if now == nil {
		now = time.Now
	}
	return &MemoryRevocationList{entries: make(map[string]time.Time), now: now}
}

// Revoke implements RevocationList.
func (l *MemoryRevocationList) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id is required")
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, exp := range l.entries {
		if !exp.After(now) {
			delete(l.entries, id)
		}
	}
	if existing, ok := l.entries[tokenID]; !ok || expiresAt.After(existing) {
		l.entries[tokenID] = expiresAt
	}
	return nil
}

// IsRevoked implements RevocationList.
func (l *MemoryRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.RLock()
	exp, ok := l.entries[tokenID]
	l.mu.RUnlock()
	return ok && exp.After(l.now()), nil
}

// graceRevocationList extends every revocation by a fixed grace period.
type graceRevocationList struct {
	RevocationList
	grace time.Duration
}

// WithGrace returns a RevocationList that keeps each revocation for grace
// beyond the expiry it was given. Token validation tolerates clock skew past
// exp, and a revoked token must stay rejected for that whole window. A
// non-positive grace returns list unchanged.
func WithGrace(list RevocationList, grace time.Duration) RevocationList {
	if grace <= 0 {
		return list
	}
	return &graceRevocationList{RevocationList: list, grace: grace}
}

// Revoke implements RevocationList.
func (l *graceRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return l.RevocationList.Revoke(ctx, tokenID, expiresAt.Add(l.grace))
}

// redisKV is the subset of the go-redis client the revocation list uses.
type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRevocationList stores one key per revoked token with a TTL matching
// the token's remaining lifetime, so entries vanish on their own.
type RedisRevocationList struct {
	client redisKV
	prefix string
	now    func() time.Time
}

var _ RevocationList = (*RedisRevocationList)(nil)

// NewRedisRevocationList creates a RedisRevocationList storing keys under prefix.
func NewRedisRevocationList(client redisKV, prefix string, now func() time.Time) *RedisRevocationList {
	if now == nil {
		now = time.Now
	}
	return &RedisRevocationList{client: client, prefix: prefix, now: now}
}

// Revoke implements RevocationList. Tokens that already expired are ignored.
func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id is required")
	}
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	return l.client.Set(ctx, l.prefix+tokenID, 1, ttl).Err()
}

// IsRevoked implements RevocationList.
func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
