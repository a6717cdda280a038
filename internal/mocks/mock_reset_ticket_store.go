package mocks

import (
	"context"
	"time"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockResetTicketStore implements domain.ResetTicketStore for testing
type MockResetTicketStore struct {
	IssueFunc   func(ctx context.Context, email string, ttl time.Duration) (string, error)
	ConsumeFunc func(ctx context.Context, email, ticket string) (bool, error)
}

// NewMockResetTicketStore creates a new MockResetTicketStore with default behaviors
func NewMockResetTicketStore() *MockResetTicketStore {
	return &MockResetTicketStore{}
}

// Issue returns "ticket_<email>" by default
func (m *MockResetTicketStore) Issue(ctx context.Context, email string, ttl time.Duration) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, email, ttl)
	}
	return "ticket_" + email, nil
}

// Consume accepts "ticket_<email>" by default
func (m *MockResetTicketStore) Consume(ctx context.Context, email, ticket string) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, email, ticket)
	}
	return ticket == "ticket_"+email, nil
}

// Compile-time interface compliance verification
var _ domain.ResetTicketStore = (*MockResetTicketStore)(nil)
