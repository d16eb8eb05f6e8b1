package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent describes one committed row mutation on a remote table. Insert
// and update events carry the full row after the write; delete events carry
// only the row id.
type ChangeEvent struct {
	Table      string          `json:"table"`
	Op         Op              `json:"op"`
	RowId      uuid.UUID       `json:"row_id"`
	Row        json.RawMessage `json:"row,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	// Origin identifies the agent instance that committed the write. The
	// NATS bridge drops events carrying its own origin.
	Origin string `json:"origin,omitempty"`
}

// Topic returns the bus topic carrying changes for one table.
func Topic(table string) string {
	return "changes." + table
}

func (e ChangeEvent) Validate() error {
	if e.Table == "" {
		return fmt.Errorf("change event: missing table")
	}
	if e.Op != OpInsert && e.Op != OpUpdate && e.Op != OpDelete {
		return fmt.Errorf("change event: unknown op %q", e.Op)
	}
	if e.RowId == uuid.Nil {
		return fmt.Errorf("change event: missing row id")
	}
	if e.Op != OpDelete && len(e.Row) == 0 {
		return fmt.Errorf("change event: %s without row payload", e.Op)
	}
	return nil
}

// NewRowEvent builds an insert/update event from a serializable row model.
func NewRowEvent(table string, op Op, rowId uuid.UUID, row interface{}) (ChangeEvent, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return ChangeEvent{}, fmt.Errorf("marshal %s row: %w", table, err)
	}
	return ChangeEvent{
		Table:      table,
		Op:         op,
		RowId:      rowId,
		Row:        payload,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// NewDeleteEvent builds a delete event carrying only the row id.
func NewDeleteEvent(table string, rowId uuid.UUID) ChangeEvent {
	return ChangeEvent{
		Table:      table,
		Op:         OpDelete,
		RowId:      rowId,
		OccurredAt: time.Now().UTC(),
	}
}
