package audit

import (
	"context"
	"log/slog"

	"dataroom/internal/domain/services"
)

// logRecorder writes audit events to the application log
type logRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder returns an AuditRecorder that only logs
func NewLogRecorder(logger *slog.Logger) services.AuditRecorder {
	return &logRecorder{logger: logger.With("component", "audit")}
}

func (r *logRecorder) Record(ctx context.Context, event services.AuditEvent) {
	attrs := []slog.Attr{
		slog.String("action", event.Action),
		slog.String("dataroom_id", event.DataroomID),
		slog.String("resource_type", event.ResourceType),
		slog.String("resource_id", event.ResourceID),
	}
	if event.ActorID != nil {
		attrs = append(attrs, slog.String("actor_id", *event.ActorID))
	}
	if len(event.Details) > 0 {
		attrs = append(attrs, slog.Any("details", event.Details))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "audit event", attrs...)
}

// Nop discards every event
type Nop struct{}

func (Nop) Record(context.Context, services.AuditEvent) {}
