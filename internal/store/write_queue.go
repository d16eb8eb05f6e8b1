package store

import (
	"context"
	"sync"
	"time"

	"ai-chat-sync/internal/pkg/logger"

	"github.com/google/uuid"
)

// WriteResult reports the outcome of one flushed remote write. The UI layer
// watches Results to surface failures instead of letting optimistic local
// state drift silently.
type WriteResult struct {
	Table string    `json:"table"`
	RowId uuid.UUID `json:"row_id"`
	Err   error     `json:"-"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
}

func (r WriteResult) Failed() bool {
	return r.Err != nil
}

// WriteQueue executes queued remote writes on one worker goroutine and
// reports every outcome on Results. Writes for one queue run in order.
type WriteQueue struct {
	jobs    chan writeJob
	results chan WriteResult
	log     logger.ILogger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

type writeJob struct {
	ctx   context.Context
	table string
	rowId uuid.UUID
	write func(ctx context.Context) error
}

func NewWriteQueue(resultBuffer int, log logger.ILogger) *WriteQueue {
	q := &WriteQueue{
		jobs:    make(chan writeJob, 64),
		results: make(chan WriteResult, resultBuffer),
		log:     log,
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *WriteQueue) run() {
	defer close(q.done)
	for job := range q.jobs {
		err := job.write(job.ctx)
		result := WriteResult{
			Table: job.table,
			RowId: job.rowId,
			Err:   err,
			At:    time.Now().UTC(),
		}
		if err != nil {
			result.Error = err.Error()
			q.log.Error("WriteQueue", "Remote write failed", map[string]interface{}{
				"table": job.table,
				"id":    job.rowId,
				"error": err.Error(),
			})
		}

		select {
		case q.results <- result:
		default:
			// Nobody is draining results; dropping the oldest keeps the
			// worker from stalling behind a full channel.
			select {
			case <-q.results:
			default:
			}
			q.results <- result
			q.log.Warn("WriteQueue", "Result buffer full, dropped oldest", map[string]interface{}{
				"table": job.table,
			})
		}
	}
}

// Enqueue schedules one remote write. Returns false after Close.
func (q *WriteQueue) Enqueue(ctx context.Context, table string, rowId uuid.UUID, write func(ctx context.Context) error) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	q.jobs <- writeJob{ctx: ctx, table: table, rowId: rowId, write: write}
	return true
}

// Results is the outcome stream. One consumer is expected.
func (q *WriteQueue) Results() <-chan WriteResult {
	return q.results
}

// Close stops the worker after draining queued jobs and ends the Results
// stream.
func (q *WriteQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	<-q.done
	close(q.results)
}
