package mocks

import (
	"context"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockRoleService implements domain.RoleService interface for testing
type MockRoleService struct {
	AssignRoleFunc func(ctx context.Context, callerID, targetUserID, requestedRole string) (*domain.User, error)
}

// NewMockRoleService creates a new MockRoleService with default behaviors
func NewMockRoleService() *MockRoleService {
	return &MockRoleService{}
}

// AssignRole returns the target with the requested role by default
func (m *MockRoleService) AssignRole(ctx context.Context, callerID, targetUserID, requestedRole string) (*domain.User, error) {
	if m.AssignRoleFunc != nil {
		return m.AssignRoleFunc(ctx, callerID, targetUserID, requestedRole)
	}
	return &domain.User{ID: targetUserID, Email: "target@example.com", Role: domain.Role(requestedRole)}, nil
}

// Compile-time interface compliance verification
var _ domain.RoleService = (*MockRoleService)(nil)
