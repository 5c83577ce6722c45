package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskBookmarkAudit is the task type for bookmark mutation records.
	TaskBookmarkAudit = "bookmark:audit"

	QueueDefault = "default"
	QueueAudit   = "audit"
)

// AuditAction names the mutation an audit task records.
type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

// BookmarkAuditPayload is the JSON payload of a bookmark audit task.
type BookmarkAuditPayload struct {
	Action     AuditAction `json:"action"`
	BookmarkID int64       `json:"bookmark_id"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Message is the log line recorded for the mutation.
func (p BookmarkAuditPayload) Message() string {
	return fmt.Sprintf("Bookmark with id %d %s.", p.BookmarkID, p.Action)
}

// NewBookmarkAuditTask constructs the Asynq task for an audit record.
func NewBookmarkAuditTask(p BookmarkAuditPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBookmarkAudit,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueAudit),
		asynq.Timeout(10*time.Second),
	), nil
}
