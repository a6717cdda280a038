package mocks

import (
	"sync/atomic"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// MockPasswordService implements domain.PasswordService interface for testing.
// Hashes are "hashed_" + plaintext unless overridden.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	verifyCalls atomic.Int32
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash generates a hash for the given password
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify verifies a password against its hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	m.verifyCalls.Add(1)
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// VerifyCalls reports how many comparisons ran
func (m *MockPasswordService) VerifyCalls() int {
	return int(m.verifyCalls.Load())
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
