package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/mocks"
)

// authTestDeps bundles the mocks behind an AuthService under test
type authTestDeps struct {
	users     *mocks.MockUserRepository
	passwords *mocks.MockPasswordService
	tokens    *mocks.MockTokenService
	otp       *mocks.MockOTPService
	notifier  *mocks.MockNotificationService
	refresh   *mocks.MockRefreshTokenStore
	tickets   *mocks.MockResetTicketStore
	audit     *mocks.MockAuditLogger
}

func newAuthTestDeps() *authTestDeps {
	return &authTestDeps{
		users:     mocks.NewMockUserRepository(),
		passwords: mocks.NewMockPasswordService(),
		tokens:    mocks.NewMockTokenService(),
		otp:       mocks.NewMockOTPService(),
		notifier:  mocks.NewMockNotificationService(),
		refresh:   mocks.NewMockRefreshTokenStore(),
		tickets:   mocks.NewMockResetTicketStore(),
		audit:     mocks.NewMockAuditLogger(),
	}
}

// defaultAuthConfig enables both hardening switches
func defaultAuthConfig() AuthConfig {
	return AuthConfig{
		ExternalTimeout:    time.Second,
		RequireResetTicket: true,
		TrackRefreshTokens: true,
	}
}

func (d *authTestDeps) service(t *testing.T, cfg AuthConfig) domain.AuthService {
	t.Helper()
	return NewAuthService(AuthDeps{
		Users:         d.users,
		Passwords:     d.passwords,
		Tokens:        d.tokens,
		OTP:           d.otp,
		Notifier:      d.notifier,
		RefreshTokens: d.refresh,
		ResetTickets:  d.tickets,
		Audit:         d.audit,
		Logger:        quietLogger(),
	}, cfg)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           "user-1",
		Fullname:     "Jo Doe",
		Email:        "jo@x.com",
		PasswordHash: "hashed_longenough1",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-1 * time.Hour),
	}
}

func userWithRole(id string, role domain.Role) *domain.User {
	return &domain.User{ID: id, Email: id + "@x.com", PasswordHash: "hashed_pw", Role: role}
}
