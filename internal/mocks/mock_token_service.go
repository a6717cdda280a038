package mocks

import (
	"strings"
	"time"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens are "access_<id>_<role>" and "refresh_<id>_<role>".
type MockTokenService struct {
	IssueFunc         func(user *domain.User) (*domain.TokenPair, error)
	VerifyAccessFunc  func(token string) (*domain.TokenClaims, error)
	VerifyRefreshFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLValue    time.Duration
	RefreshTTLValue   time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		AccessTTLValue:  15 * time.Minute,
		RefreshTTLValue: 30 * 24 * time.Hour,
	}
}

// Issue mints a token pair for the user
func (m *MockTokenService) Issue(user *domain.User) (*domain.TokenPair, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(user)
	}
	now := time.Now()
	suffix := user.ID + "_" + user.Role.String()
	return &domain.TokenPair{
		AccessToken:      "access_" + suffix,
		RefreshToken:     "refresh_" + suffix,
		RefreshTokenID:   "jti_" + user.ID,
		AccessExpiresAt:  now.Add(m.AccessTTLValue),
		RefreshExpiresAt: now.Add(m.RefreshTTLValue),
	}, nil
}

// VerifyAccess validates an access token and returns claims
func (m *MockTokenService) VerifyAccess(token string) (*domain.TokenClaims, error) {
	if m.VerifyAccessFunc != nil {
		return m.VerifyAccessFunc(token)
	}
	return parseMockToken(token, "access_")
}

// VerifyRefresh validates a refresh token and returns claims
func (m *MockTokenService) VerifyRefresh(token string) (*domain.TokenClaims, error) {
	if m.VerifyRefreshFunc != nil {
		return m.VerifyRefreshFunc(token)
	}
	return parseMockToken(token, "refresh_")
}

func (m *MockTokenService) AccessTTL() time.Duration  { return m.AccessTTLValue }
func (m *MockTokenService) RefreshTTL() time.Duration { return m.RefreshTTLValue }

func parseMockToken(token, prefix string) (*domain.TokenClaims, error) {
	rest, ok := strings.CutPrefix(token, prefix)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return nil, domain.ErrTokenInvalid
	}
	role, ok := domain.ParseRole(rest[i+1:])
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now().Unix()
	return &domain.TokenClaims{
		UserID:    rest[:i],
		Role:      role,
		TokenID:   "jti_" + rest[:i],
		IssuedAt:  now,
		ExpiresAt: now + 900,
	}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
