package notifications

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// LogServiceImpl implements domain.NotificationService by logging instead of
// sending. Used when no SMTP host is configured.
type LogServiceImpl struct {
	log *logrus.Logger
}

// NewLogService creates a log-only notification service
func NewLogService(log *logrus.Logger) domain.NotificationService {
	return &LogServiceImpl{log: log}
}

// SendEmail implements domain.NotificationService
func (l *LogServiceImpl) SendEmail(_ context.Context, to, subject, body string) error {
	l.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    body,
	}).Info("[MOCK EMAIL] delivery skipped, no SMTP host configured")
	return nil
}
