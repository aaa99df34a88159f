package services

import "context"

// AuditEvent describes one completed mutation
type AuditEvent struct {
	Action       string // e.g. "folder.create", "file.delete"
	DataroomID   string
	ResourceType string
	ResourceID   string
	ActorID      *string
	Details      map[string]any
}

// AuditRecorder receives an event after every successful mutation.
// Implementations must not fail the caller; persistence is their own concern.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent)
}

type actorContextKey struct{}

// WithActorID binds the acting user to ctx
func WithActorID(ctx context.Context, actorID string) context.Context {
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorContextKey{}, actorID)
}

// ActorID returns the acting user bound to ctx, or nil for anonymous calls
func ActorID(ctx context.Context) *string {
	actorID, ok := ctx.Value(actorContextKey{}).(string)
	if !ok || actorID == "" {
		return nil
	}
	return &actorID
}
