package logging

import (
	"context"
	"log/slog"
)

// Audit event types written to system_logs.event_type.
const (
	EventAuthSuccess     = "auth_success"
	EventAuthFailed      = "auth_failed"
	EventAccessDenied401 = "access_denied_401"
	EventAccessDenied403 = "access_denied_403"
	EventSensitiveAccess = "sensitive_access"
)

// AuditEvent is a security-relevant fact about a request.
type AuditEvent struct {
	Type   string
	UserID uint
	IP     string
	Path   string
	Reason string
}

// Audit records e through the default logger. Failures and denials are
// logged at WARN, everything else at INFO.
func Audit(e AuditEvent) {
	level := slog.LevelInfo
	switch e.Type {
	case EventAuthFailed, EventAccessDenied401, EventAccessDenied403:
		level = slog.LevelWarn
	}

	attrs := []any{
		"event_type", e.Type,
		"ip", e.IP,
		"path", e.Path,
	}
	if e.UserID != 0 {
		attrs = append(attrs, "user_id", e.UserID)
	}
	if e.Reason != "" {
		attrs = append(attrs, "reason", e.Reason)
	}
	slog.Log(context.Background(), level, "audit", attrs...)
}
