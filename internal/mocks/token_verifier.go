package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// MockTokenVerifier implements middleware.TokenVerifier for testing. By
// default it maps a header to the principal registered for it and rejects
// everything else with domain.ErrInvalidCredential.
type MockTokenVerifier struct {
	VerifyFn func(ctx context.Context, header string) (domain.Principal, error)

	Principals map[string]domain.Principal

	mu      sync.Mutex
	Headers []string
}

// Verify implements the TokenVerifier interface
func (m *MockTokenVerifier) Verify(ctx context.Context, header string) (domain.Principal, error) {
	m.mu.Lock()
	m.Headers = append(m.Headers, header)
	m.mu.Unlock()

	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, header)
	}
	if header == "" {
		return domain.Principal{}, domain.ErrMissingCredential
	}
	if p, ok := m.Principals[header]; ok {
		return p, nil
	}
	return domain.Principal{}, domain.ErrInvalidCredential
}

// CallCount returns how many times Verify was called.
func (m *MockTokenVerifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Headers)
}
