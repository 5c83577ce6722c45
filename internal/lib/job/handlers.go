package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleBookmarkAuditTask writes the audit record to the log.
func (j *JobService) handleBookmarkAuditTask(ctx context.Context, t *asynq.Task) error {
	var p BookmarkAuditPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload will never succeed; skip retries.
		return fmt.Errorf("failed to unmarshal bookmark audit payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskBookmarkAudit).
		Str("action", string(p.Action)).
		Int64("bookmark_id", p.BookmarkID).
		Time("occurred_at", p.OccurredAt).
		Msg(p.Message())

	return nil
}
