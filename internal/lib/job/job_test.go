package job

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookmarkAuditTask(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	task, err := NewBookmarkAuditTask(BookmarkAuditPayload{
		Action:     AuditDeleted,
		BookmarkID: 7,
		OccurredAt: at,
	})
	require.NoError(t, err)

	assert.Equal(t, TaskBookmarkAudit, task.Type())
	assert.JSONEq(t,
		`{"action":"deleted","bookmark_id":7,"occurred_at":"2026-01-02T03:04:05Z"}`,
		string(task.Payload()))
}

func TestBookmarkAuditMessage(t *testing.T) {
	assert.Equal(t, "Bookmark with id 3 deleted.", BookmarkAuditPayload{Action: AuditDeleted, BookmarkID: 3}.Message())
	assert.Equal(t, "Bookmark with id 12 created.", BookmarkAuditPayload{Action: AuditCreated, BookmarkID: 12}.Message())
}

func TestHandleBookmarkAuditTask(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	j := &JobService{logger: &logger}

	payload, err := json.Marshal(BookmarkAuditPayload{Action: AuditUpdated, BookmarkID: 4})
	require.NoError(t, err)

	require.NoError(t, j.handleBookmarkAuditTask(context.Background(), asynq.NewTask(TaskBookmarkAudit, payload)))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Bookmark with id 4 updated.", line["message"])
	assert.Equal(t, "updated", line["action"])
	assert.EqualValues(t, 4, line["bookmark_id"])
}

func TestHandleBookmarkAuditTaskBadPayload(t *testing.T) {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger}

	err := j.handleBookmarkAuditTask(context.Background(), asynq.NewTask(TaskBookmarkAudit, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestAsynqLoggerJoinsArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	newAsynqLogger(&logger).Warn("retrying task ", 3, " of ", 5)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "retrying task 3 of 5", line["message"])
	assert.Equal(t, "asynq", line["component"])
	assert.Equal(t, "warn", line["level"])
}
