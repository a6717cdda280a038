package domain

import (
	"context"
	"time"
)

// UserRepository defines the credential store operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role Role) error
	CountByRole(ctx context.Context, role Role) (int64, error)
	Delete(ctx context.Context, id string) error
}

// RefreshTokenStore is the allowlist of live refresh token ids
type RefreshTokenStore interface {
	Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	// Consume atomically removes tokenID and reports whether it was live for userID.
	Consume(ctx context.Context, userID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID, tokenID string) error
	RevokeAll(ctx context.Context, userID string) error
}

// ResetTicketStore holds the single-use proof issued by a successful OTP verification
type ResetTicketStore interface {
	Issue(ctx context.Context, email string, ttl time.Duration) (string, error)
	Consume(ctx context.Context, email, ticket string) (bool, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Signin(ctx context.Context, in SigninInput) (*AuthResult, error)
	ForgotPassword(ctx context.Context, in ForgotPasswordInput) error
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPResult, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, callerID, refreshToken string) error
	GetUserProfile(ctx context.Context, userID string) (*User, error)
}

// RoleService enforces the role assignment rules
type RoleService interface {
	AssignRole(ctx context.Context, callerID, targetUserID, requestedRole string) (*User, error)
}

// OTPService defines one-time code operations backed by a TTL cache
type OTPService interface {
	Generate() (string, error)
	Save(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (string, bool, error)
	Invalidate(ctx context.Context, email string) error
	// Consume deletes the OTP only when code matches, atomically. found
	// reports whether a live OTP existed at all.
	Consume(ctx context.Context, email, code string) (matched, found bool, err error)
	// RegisterFailure counts a wrong code; false means the OTP was burned.
	RegisterFailure(ctx context.Context, email string) (bool, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	Issue(user *User) (*TokenPair, error)
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// NotificationService delivers messages out of band
type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
