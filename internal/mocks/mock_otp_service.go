package mocks

import (
	"context"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	GenerateFunc        func() (string, error)
	SaveFunc            func(ctx context.Context, email, code string) error
	GetFunc             func(ctx context.Context, email string) (string, bool, error)
	InvalidateFunc      func(ctx context.Context, email string) error
	ConsumeFunc         func(ctx context.Context, email, code string) (bool, bool, error)
	RegisterFailureFunc func(ctx context.Context, email string) (bool, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Generate returns a fixed code by default
func (m *MockOTPService) Generate() (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return "123456", nil
}

// Save stores the code
func (m *MockOTPService) Save(ctx context.Context, email, code string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, email, code)
	}
	return nil
}

// Get returns the stored code; absent by default
func (m *MockOTPService) Get(ctx context.Context, email string) (string, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, email)
	}
	return "", false, nil
}

// Invalidate deletes the code
func (m *MockOTPService) Invalidate(ctx context.Context, email string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, email)
	}
	return nil
}

// Consume defaults to Get followed by Invalidate on a match
func (m *MockOTPService) Consume(ctx context.Context, email, code string) (bool, bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, email, code)
	}
	stored, found, err := m.Get(ctx, email)
	if err != nil || !found || stored != code {
		return false, found, err
	}
	return true, true, m.Invalidate(ctx, email)
}

// RegisterFailure counts a wrong attempt
func (m *MockOTPService) RegisterFailure(ctx context.Context, email string) (bool, error) {
	if m.RegisterFailureFunc != nil {
		return m.RegisterFailureFunc(ctx, email)
	}
	return true, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
