package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// PasswordCost is the bcrypt work factor. It is a tuning constant, not runtime config.
const PasswordCost = 10

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{
		cost: PasswordCost,
	}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService. bcrypt only reads the first 72
// bytes, so a longer candidate could match a hash of its prefix.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	if len(password) > domain.MaxPasswordLength {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
