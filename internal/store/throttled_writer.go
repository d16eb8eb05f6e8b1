package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// throttledWriter owns one Throttle per row id so edits to different rows
// never coalesce with each other.
type throttledWriter struct {
	interval time.Duration
	queue    *WriteQueue
	table    string

	mu        sync.Mutex
	throttles map[uuid.UUID]*Throttle
}

func newThrottledWriter(table string, interval time.Duration, queue *WriteQueue) *throttledWriter {
	return &throttledWriter{
		interval:  interval,
		queue:     queue,
		table:     table,
		throttles: make(map[uuid.UUID]*Throttle),
	}
}

// Queue coalesces write under the row's throttle; when the window elapses
// the last queued write is handed to the write queue.
func (w *throttledWriter) Queue(ctx context.Context, rowId uuid.UUID, write func(ctx context.Context) error) {
	w.mu.Lock()
	th, ok := w.throttles[rowId]
	if !ok {
		th = NewThrottle(w.interval)
		w.throttles[rowId] = th
	}
	w.mu.Unlock()

	th.Do(func() {
		w.queue.Enqueue(ctx, w.table, rowId, write)
	})
}

// Reset drops every pending write. Called on session change so edits from
// the previous identity never reach the remote store afterwards.
func (w *throttledWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, th := range w.throttles {
		th.Cancel()
		delete(w.throttles, id)
	}
}

// FlushAll forces pending writes out immediately. Called on shutdown.
func (w *throttledWriter) FlushAll() {
	w.mu.Lock()
	throttles := make([]*Throttle, 0, len(w.throttles))
	for _, th := range w.throttles {
		throttles = append(throttles, th)
	}
	w.mu.Unlock()

	for _, th := range throttles {
		th.Flush()
	}
}
