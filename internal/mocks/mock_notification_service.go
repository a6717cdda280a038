package mocks

import (
	"context"
	"sync"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// SentEmail is a message captured by MockNotificationService
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendEmailFunc func(ctx context.Context, to, subject, body string) error

	mu   sync.Mutex
	sent []SentEmail
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendEmail records the message and then applies SendEmailFunc, if any
func (m *MockNotificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: body})
	m.mu.Unlock()

	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, body)
	}
	return nil
}

// Sent returns a copy of every message passed to SendEmail
func (m *MockNotificationService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
