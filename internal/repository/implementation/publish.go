package implementation

import (
	"context"

	"ai-chat-sync/internal/pkg/logger"
	"ai-chat-sync/internal/realtime"

	"github.com/google/uuid"
)

// publishRowChange mirrors a committed insert/update onto the change feed.
// The local write already succeeded, so a publish failure is logged and the
// mutation still reports success; the row will be picked up on the next
// session fetch.
func publishRowChange(ctx context.Context, pub realtime.Publisher, log logger.ILogger, table string, op realtime.Op, id uuid.UUID, row interface{}) {
	if pub == nil {
		return
	}
	event, err := realtime.NewRowEvent(table, op, id, row)
	if err != nil {
		log.Error("Repository", "Failed to build change event", map[string]interface{}{
			"table": table,
			"op":    string(op),
			"error": err.Error(),
		})
		return
	}
	if err := pub.PublishChange(ctx, event); err != nil {
		log.Error("Repository", "Failed to publish change event", map[string]interface{}{
			"table": table,
			"op":    string(op),
			"error": err.Error(),
		})
	}
}

func publishRowDelete(ctx context.Context, pub realtime.Publisher, log logger.ILogger, table string, id uuid.UUID) {
	if pub == nil {
		return
	}
	if err := pub.PublishChange(ctx, realtime.NewDeleteEvent(table, id)); err != nil {
		log.Error("Repository", "Failed to publish delete event", map[string]interface{}{
			"table": table,
			"error": err.Error(),
		})
	}
}
