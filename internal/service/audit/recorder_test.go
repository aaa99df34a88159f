package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/internal/domain/services"
)

func TestLogRecorder_Record(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	rec := NewLogRecorder(logger)

	ctx := services.WithActorID(context.Background(), "user-1")
	rec.Record(ctx, services.AuditEvent{
		Action:       "folder.create",
		DataroomID:   "dr-1",
		ResourceType: "folder",
		ResourceID:   "f-1",
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"path": "Finance"},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit event", entry["msg"])
	assert.Equal(t, "audit", entry["component"])
	assert.Equal(t, "folder.create", entry["action"])
	assert.Equal(t, "user-1", entry["actor_id"])
	assert.Equal(t, map[string]any{"path": "Finance"}, entry["details"])
}

func TestLogRecorder_AnonymousActor(t *testing.T) {
	var buf bytes.Buffer
	rec := NewLogRecorder(slog.New(slog.NewJSONHandler(&buf, nil)))

	rec.Record(context.Background(), services.AuditEvent{Action: "file.delete", ResourceType: "file", ResourceID: "x"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "actor_id")
	assert.NotContains(t, entry, "details")
}
