package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockRefreshTokenStore implements domain.RefreshTokenStore for testing.
// Without overrides it behaves as an in-memory allowlist.
type MockRefreshTokenStore struct {
	SaveFunc      func(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	ConsumeFunc   func(ctx context.Context, userID, tokenID string) (bool, error)
	RevokeFunc    func(ctx context.Context, userID, tokenID string) error
	RevokeAllFunc func(ctx context.Context, userID string) error

	mu     sync.Mutex
	tokens map[string]string // token id -> user id
}

// NewMockRefreshTokenStore creates a new MockRefreshTokenStore with default behaviors
func NewMockRefreshTokenStore() *MockRefreshTokenStore {
	return &MockRefreshTokenStore{tokens: make(map[string]string)}
}

// Save records the token id
func (m *MockRefreshTokenStore) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, userID, tokenID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenID] = userID
	return nil
}

// Consume removes the token id and reports whether it was live for userID
func (m *MockRefreshTokenStore) Consume(ctx context.Context, userID, tokenID string) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, userID, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.tokens[tokenID]
	delete(m.tokens, tokenID)
	return ok && owner == userID, nil
}

// Revoke removes one token id
func (m *MockRefreshTokenStore) Revoke(ctx context.Context, userID, tokenID string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, userID, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, tokenID)
	return nil
}

// RevokeAll removes every token id of the user
func (m *MockRefreshTokenStore) RevokeAll(ctx context.Context, userID string) error {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, owner := range m.tokens {
		if owner == userID {
			delete(m.tokens, id)
		}
	}
	return nil
}

// Has reports whether tokenID is currently stored
func (m *MockRefreshTokenStore) Has(tokenID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[tokenID]
	return ok
}

// Compile-time interface compliance verification
var _ domain.RefreshTokenStore = (*MockRefreshTokenStore)(nil)
