package domain

import "time"

// User represents a community member account
type User struct {
	ID           string
	Fullname     string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair is an access/refresh pair minted from one user snapshot
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshTokenID   string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenClaims represents the identity decoded from a signed token
type TokenClaims struct {
	UserID    string
	Email     string
	Role      Role
	TokenID   string
	IssuedAt  int64
	ExpiresAt int64
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User   *User
	Tokens *TokenPair
}

// VerifyOTPResult is returned by a successful OTP verification.
// ResetToken is empty when reset tickets are not required.
type VerifyOTPResult struct {
	ResetToken string
}
