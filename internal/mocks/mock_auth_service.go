package mocks

import (
	"context"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignupFunc         func(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error)
	SigninFunc         func(ctx context.Context, in domain.SigninInput) (*domain.AuthResult, error)
	ForgotPasswordFunc func(ctx context.Context, in domain.ForgotPasswordInput) error
	VerifyOTPFunc      func(ctx context.Context, in domain.VerifyOTPInput) (*domain.VerifyOTPResult, error)
	ResetPasswordFunc  func(ctx context.Context, in domain.ResetPasswordInput) error
	RefreshFunc        func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, callerID, refreshToken string) error
	GetUserProfileFunc func(ctx context.Context, userID string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Signup(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, in)
	}
	return mockAuthResult(&domain.User{ID: "mock-user-id", Fullname: in.Fullname, Email: in.Email, Role: domain.RoleUser}), nil
}

func (m *MockAuthService) Signin(ctx context.Context, in domain.SigninInput) (*domain.AuthResult, error) {
	if m.SigninFunc != nil {
		return m.SigninFunc(ctx, in)
	}
	return mockAuthResult(&domain.User{ID: "mock-user-id", Email: in.Email, Role: domain.RoleUser}), nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, in domain.ForgotPasswordInput) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, in)
	}
	return nil
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, in domain.VerifyOTPInput) (*domain.VerifyOTPResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, in)
	}
	return &domain.VerifyOTPResult{}, nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, in domain.ResetPasswordInput) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, in)
	}
	return nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return mockAuthResult(&domain.User{ID: "mock-user-id", Role: domain.RoleUser}), nil
}

func (m *MockAuthService) Logout(ctx context.Context, callerID, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, callerID, refreshToken)
	}
	return nil
}

func (m *MockAuthService) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Email: "test@example.com", Role: domain.RoleUser}, nil
}

func mockAuthResult(user *domain.User) *domain.AuthResult {
	pair, _ := NewMockTokenService().Issue(user)
	return &domain.AuthResult{User: user, Tokens: pair}
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
