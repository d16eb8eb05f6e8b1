package cache

import (
	"context"
	"encoding/json"
	"sync"

	"ai-chat-sync/internal/pkg/logger"
	"ai-chat-sync/internal/realtime"

	"github.com/google/uuid"
)

// Subscriber hands out change subscriptions while enforcing the
// one-live-handle-per-table invariant. *realtime.Manager satisfies it.
type Subscriber interface {
	Subscribe(ctx context.Context, table string) (*realtime.Subscription, error)
	Release(table string)
}

// Config wires one entity type into an Engine.
type Config[E any] struct {
	// Table is the remote table this engine mirrors.
	Table string
	// ID extracts the row id of a mapped entity.
	ID func(*E) uuid.UUID
	// Fetch loads the session's visible rows, newest first.
	Fetch func(ctx context.Context, sessionId uuid.UUID) ([]*E, error)
	// Decode validates and maps one change-feed payload.
	Decode func(row json.RawMessage) (*E, error)
	// Visible reports whether a feed row belongs in the session's mirror.
	// The change feed carries every committed row for the table, including
	// rows other identities own; Fetch filters server-side, this filters the
	// feed. Nil admits every decoded row.
	Visible func(ctx context.Context, sessionId uuid.UUID, e *E) bool
	// Enrich optionally resolves derived display fields before an entity
	// enters the cache. Nil when the entity needs none.
	Enrich func(ctx context.Context, sessionId uuid.UUID, e *E) (*E, error)
}

// Engine mirrors one remote table for the active session: bulk fetch on
// Start, then in-place patching from the change feed. The mirror is an
// ordered slice, newest first; inserts prepend, updates replace at the same
// position, deletes remove.
//
// Every Start bumps a generation counter. Fetch and event continuations carry
// the generation they began under and are discarded when it no longer
// matches, so work left in flight across a session switch can never leak
// into the next session's cache.
type Engine[E any] struct {
	cfg  Config[E]
	subs Subscriber
	log  logger.ILogger

	// lifecycleMu serializes Start/Stop/OnSessionChange so a session switch
	// waits for an in-flight startup instead of racing its subscribe step.
	lifecycleMu sync.Mutex

	mu         sync.RWMutex
	entries    []*E
	index      map[uuid.UUID]int
	session    uuid.UUID
	generation uint64
	sub        *realtime.Subscription
	subscribed bool
}

func NewEngine[E any](cfg Config[E], subs Subscriber, log logger.ILogger) *Engine[E] {
	return &Engine[E]{
		cfg:   cfg,
		subs:  subs,
		log:   log,
		index: make(map[uuid.UUID]int),
	}
}

// Start fetches and subscribes for one session. Idempotent: calling it again
// for the session already running is a no-op. A fetch failure leaves the
// cache empty and is logged, not returned; a subscribe failure is returned.
func (e *Engine[E]) Start(ctx context.Context, sessionId uuid.UUID) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	return e.start(ctx, sessionId)
}

func (e *Engine[E]) start(ctx context.Context, sessionId uuid.UUID) error {
	e.mu.Lock()
	if e.subscribed && e.session == sessionId {
		e.mu.Unlock()
		return nil
	}
	e.stopLocked()
	e.generation++
	gen := e.generation
	e.session = sessionId
	e.entries = nil
	e.index = make(map[uuid.UUID]int)
	e.mu.Unlock()

	rows, err := e.cfg.Fetch(ctx, sessionId)
	if err != nil {
		e.log.Error("Cache", "Initial fetch failed, cache left empty", map[string]interface{}{
			"table": e.cfg.Table,
			"error": err.Error(),
		})
		rows = nil
	}
	if e.cfg.Enrich != nil {
		for i, row := range rows {
			enriched, err := e.cfg.Enrich(ctx, sessionId, row)
			if err != nil {
				e.log.Warn("Cache", "Enrichment failed, keeping base row", map[string]interface{}{
					"table": e.cfg.Table,
					"id":    e.cfg.ID(row),
					"error": err.Error(),
				})
				continue
			}
			rows[i] = enriched
		}
	}

	e.mu.Lock()
	if e.generation != gen {
		// Session changed while the fetch was in flight.
		e.mu.Unlock()
		return nil
	}
	for _, row := range rows {
		id := e.cfg.ID(row)
		if _, dup := e.index[id]; dup {
			continue
		}
		e.index[id] = len(e.entries)
		e.entries = append(e.entries, row)
	}
	e.mu.Unlock()

	sub, err := e.subs.Subscribe(ctx, e.cfg.Table)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.sub = sub
	e.subscribed = true
	e.mu.Unlock()

	go e.consume(ctx, sub, sessionId, gen)
	return nil
}

// Stop closes the subscription and clears the subscribed flag. Cache contents
// stay until the next Start clears them.
func (e *Engine[E]) Stop() {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine[E]) stopLocked() {
	if e.sub != nil {
		e.subs.Release(e.cfg.Table)
		e.sub = nil
	}
	e.subscribed = false
}

// OnSessionChange tears down and rebuilds for the new identity. uuid.Nil
// means logged out: the cache stays empty and unsubscribed.
func (e *Engine[E]) OnSessionChange(ctx context.Context, newId, oldId uuid.UUID) {
	if newId == oldId {
		return
	}

	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	e.mu.Lock()
	e.stopLocked()
	e.generation++
	e.session = newId
	e.entries = nil
	e.index = make(map[uuid.UUID]int)
	e.mu.Unlock()

	if newId == uuid.Nil {
		return
	}
	if err := e.start(ctx, newId); err != nil {
		e.log.Error("Cache", "Restart after session change failed", map[string]interface{}{
			"table": e.cfg.Table,
			"error": err.Error(),
		})
	}
}

// consume applies change events in arrival order. One goroutine per
// subscription, so enrichment for event N finishes before event N+1 is
// looked at and cache prefix order always matches emission order.
func (e *Engine[E]) consume(ctx context.Context, sub *realtime.Subscription, sessionId uuid.UUID, gen uint64) {
	for event := range sub.Events() {
		switch event.Op {
		case realtime.OpInsert:
			e.applyUpsert(ctx, event, sessionId, gen, true)
		case realtime.OpUpdate:
			e.applyUpsert(ctx, event, sessionId, gen, false)
		case realtime.OpDelete:
			e.applyDelete(event.RowId, gen)
		}
	}
}

func (e *Engine[E]) applyUpsert(ctx context.Context, event realtime.ChangeEvent, sessionId uuid.UUID, gen uint64, insert bool) {
	row, err := e.cfg.Decode(event.Row)
	if err != nil {
		e.log.Warn("Cache", "Dropping undecodable row", map[string]interface{}{
			"table": e.cfg.Table,
			"op":    string(event.Op),
			"id":    event.RowId,
			"error": err.Error(),
		})
		return
	}

	if e.cfg.Visible != nil && !e.cfg.Visible(ctx, sessionId, row) {
		// A row this session cannot see. If an earlier version was cached
		// (say the session was just removed from a chat), evict it.
		e.applyDelete(e.cfg.ID(row), gen)
		return
	}

	if e.cfg.Enrich != nil {
		enriched, err := e.cfg.Enrich(ctx, sessionId, row)
		if err != nil {
			e.log.Warn("Cache", "Enrichment failed, keeping base row", map[string]interface{}{
				"table": e.cfg.Table,
				"id":    event.RowId,
				"error": err.Error(),
			})
		} else {
			row = enriched
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		return
	}

	id := e.cfg.ID(row)
	if pos, ok := e.index[id]; ok {
		// Replace in place regardless of op: an insert event for a cached id
		// would otherwise duplicate it.
		e.entries[pos] = row
		return
	}
	if !insert {
		// Update for a row this session never fetched.
		return
	}

	e.entries = append([]*E{row}, e.entries...)
	for existing := range e.index {
		e.index[existing]++
	}
	e.index[id] = 0
}

func (e *Engine[E]) applyDelete(id uuid.UUID, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		return
	}

	pos, ok := e.index[id]
	if !ok {
		return
	}
	e.entries = append(e.entries[:pos], e.entries[pos+1:]...)
	delete(e.index, id)
	for existing, p := range e.index {
		if p > pos {
			e.index[existing] = p - 1
		}
	}
}

// Patch replaces a cached entry in place without touching the remote store.
// Used for the optimistic half of throttled updates; the confirming change
// event re-replaces by id, which keeps the dual write idempotent.
func (e *Engine[E]) Patch(row *E) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.index[e.cfg.ID(row)]
	if !ok {
		return false
	}
	e.entries[pos] = row
	return true
}

// Snapshot returns a copy of the current entries, newest first.
func (e *Engine[E]) Snapshot() []*E {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*E, len(e.entries))
	copy(out, e.entries)
	return out
}

func (e *Engine[E]) Get(id uuid.UUID) (*E, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pos, ok := e.index[id]
	if !ok {
		return nil, false
	}
	return e.entries[pos], true
}

func (e *Engine[E]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

func (e *Engine[E]) Session() uuid.UUID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session
}

func (e *Engine[E]) Subscribed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.subscribed
}
