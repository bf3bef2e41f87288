package mocks

import (
	"context"
	"sync"
	"time"
)

// MockRevocationList implements auth.RevocationList for testing
type MockRevocationList struct {
	RevokeErr    error
	IsRevokedErr error

	mu      sync.Mutex
	Revoked map[string]time.Time
}

// Revoke implements the auth.RevocationList interface
func (m *MockRevocationList) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if m.RevokeErr != nil {
		return m.RevokeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Revoked == nil {
		m.Revoked = make(map[string]time.Time)
	}
	m.Revoked[tokenID] = expiresAt
	return nil
}

// IsRevoked implements the auth.RevocationList interface
func (m *MockRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if m.IsRevokedErr != nil {
		return false, m.IsRevokedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Revoked[tokenID]
	return ok, nil
}
