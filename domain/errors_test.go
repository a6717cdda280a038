package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          *Error
		expectedKind ErrorKind
		expectedMsg  string
	}{
		{"ErrInvalidCredentials", ErrInvalidCredentials, KindInvalidCredentials, "invalid email or password"},
		{"ErrEmailTaken", ErrEmailTaken, KindConflict, "Email already registered"},
		{"ErrCallerNotFound", ErrCallerNotFound, KindNotFound, "caller not found"},
		{"ErrTargetNotFound", ErrTargetNotFound, KindNotFound, "target user not found"},
		{"ErrInvalidOrExpiredOTP", ErrInvalidOrExpiredOTP, KindInvalidOTP, "invalid or expired otp"},
		{"ErrInvalidRefreshToken", ErrInvalidRefreshToken, KindUnauthorized, "invalid or expired refresh token"},
		{"ErrRefreshUserNotFound", ErrRefreshUserNotFound, KindUnauthorized, "user not found"},
		{"ErrRoleAboveCaller", ErrRoleAboveCaller, KindForbidden, "cannot assign a role higher than your own"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.expectedKind {
				t.Errorf("expected kind %s, got %s", tt.expectedKind, tt.err.Kind)
			}
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, tt.err.Error())
			}

			// Same kind with another message must not match
			for _, other := range tests {
				if other.name != tt.name && errors.Is(tt.err, other.err) {
					t.Errorf("error %s should not be equal to %s", tt.name, other.name)
				}
			}
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	wrapped := fmt.Errorf("signin: %w", ErrInvalidCredentials)
	if !errors.Is(wrapped, ErrInvalidCredentials) {
		t.Error("wrapped sentinel should match")
	}
	if !errors.Is(ErrRootImmutable, &Error{Kind: KindForbidden}) {
		t.Error("kind-only target should match any message")
	}
	if errors.Is(ErrRootImmutable, &Error{Kind: KindNotFound}) {
		t.Error("different kinds should not match")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load user", cause)

	if !errors.Is(err, cause) {
		t.Error("internal error should unwrap to its cause")
	}
	if err.Error() != "failed to load user: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Retryable {
		t.Error("internal errors are not retryable")
	}
}

func TestTimeout_IsRetryableInternal(t *testing.T) {
	err := Timeout("user store timed out", errors.New("deadline"))
	if err.Kind != KindInternal {
		t.Errorf("expected kind %s, got %s", KindInternal, err.Kind)
	}
	if !err.Retryable {
		t.Error("timeouts should be retryable")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"domain error", ErrSelfRoleChange, KindForbidden},
		{"wrapped domain error", fmt.Errorf("x: %w", ErrEmailTaken), KindConflict},
		{"validation", ValidationFailed([]string{"email: must be a valid email address"}), KindValidation},
		{"foreign error", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
