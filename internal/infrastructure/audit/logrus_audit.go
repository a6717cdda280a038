package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// LogrusAuditLogger implements domain.AuditLogger by writing structured
// entries tagged audit=true.
type LogrusAuditLogger struct {
	log *logrus.Logger
}

// NewLogrusAuditLogger creates a new audit logger
func NewLogrusAuditLogger(log *logrus.Logger) domain.AuditLogger {
	return &LogrusAuditLogger{log: log}
}

// LogEvent implements domain.AuditLogger
func (a *LogrusAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	event.WithClientContext(domain.ClientFromContext(ctx))

	fields := logrus.Fields{
		"audit":      true,
		"event_type": string(event.EventType),
		"success":    event.Success,
		"timestamp":  event.Timestamp,
	}
	if event.UserID != "" {
		fields["user_id"] = event.UserID
	}
	if event.Email != "" {
		fields["email"] = event.Email
	}
	if event.IPAddress != "" {
		fields["ip_address"] = event.IPAddress
	}
	if event.UserAgent != "" {
		fields["user_agent"] = event.UserAgent
	}
	if event.ErrorMsg != "" {
		fields["error"] = event.ErrorMsg
	}
	for k, v := range event.Metadata {
		fields["meta_"+k] = v
	}

	entry := a.log.WithFields(fields)
	if event.Success {
		entry.Info("audit event")
	} else {
		entry.Warn("audit event")
	}
}
