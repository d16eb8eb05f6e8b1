package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ai-chat-sync/internal/pkg/logger"
	"ai-chat-sync/internal/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Owner uuid.UUID `json:"owner"`
}

const testTable = "rows"

func decodeTestRow(raw json.RawMessage) (*testRow, error) {
	var row testRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	if row.Id == uuid.Nil {
		return nil, errors.New("row without id")
	}
	return &row, nil
}

type testHarness struct {
	engine  *Engine[testRow]
	bus     *realtime.Bus
	manager *realtime.Manager
}

func newTestHarness(t *testing.T, fetch func(ctx context.Context, sessionId uuid.UUID) ([]*testRow, error)) *testHarness {
	t.Helper()

	bus := realtime.NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })
	manager := realtime.NewManager(bus, logger.Noop{})

	engine := NewEngine(Config[testRow]{
		Table:  testTable,
		ID:     func(r *testRow) uuid.UUID { return r.Id },
		Fetch:  fetch,
		Decode: decodeTestRow,
	}, manager, logger.Noop{})
	t.Cleanup(engine.Stop)

	return &testHarness{engine: engine, bus: bus, manager: manager}
}

func (h *testHarness) publishRow(t *testing.T, op realtime.Op, row *testRow) {
	t.Helper()
	event, err := realtime.NewRowEvent(testTable, op, row.Id, row)
	require.NoError(t, err)
	require.NoError(t, h.bus.PublishChange(context.Background(), event))
}

func (h *testHarness) publishDelete(t *testing.T, id uuid.UUID) {
	t.Helper()
	require.NoError(t, h.bus.PublishChange(context.Background(), realtime.NewDeleteEvent(testTable, id)))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	assert.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func fixedRows(rows ...*testRow) func(ctx context.Context, sessionId uuid.UUID) ([]*testRow, error) {
	return func(ctx context.Context, sessionId uuid.UUID) ([]*testRow, error) {
		out := make([]*testRow, len(rows))
		for i, r := range rows {
			c := *r
			out[i] = &c
		}
		return out, nil
	}
}

func TestEngineStartLoadsFetchedRowsInOrder(t *testing.T) {
	a := &testRow{Id: uuid.New(), Name: "newest"}
	b := &testRow{Id: uuid.New(), Name: "older"}
	h := newTestHarness(t, fixedRows(a, b))

	session := uuid.New()
	require.NoError(t, h.engine.Start(context.Background(), session))

	snap := h.engine.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "newest", snap[0].Name)
	assert.Equal(t, "older", snap[1].Name)
	assert.True(t, h.engine.Subscribed())
	assert.Equal(t, session, h.engine.Session())
	assert.Equal(t, 1, h.manager.Open())
}

func TestEngineStartIsIdempotentPerSession(t *testing.T) {
	var fetches atomic.Int64
	h := newTestHarness(t, func(ctx context.Context, sessionId uuid.UUID) ([]*testRow, error) {
		fetches.Add(1)
		return []*testRow{{Id: uuid.New(), Name: "row"}}, nil
	})

	session := uuid.New()
	require.NoError(t, h.engine.Start(context.Background(), session))
	require.NoError(t, h.engine.Start(context.Background(), session))

	assert.Equal(t, int64(1), fetches.Load())
	assert.Equal(t, 1, h.manager.Open())
	assert.Equal(t, 1, h.engine.Len())
}

func TestEngineStartSurvivesFetchFailure(t *testing.T) {
	h := newTestHarness(t, func(ctx context.Context, sessionId uuid.UUID) ([]*testRow, error) {
		return nil, errors.New("remote store down")
	})

	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))
	assert.Zero(t, h.engine.Len())
	assert.True(t, h.engine.Subscribed())

	// The feed still patches the empty cache afterwards.
	row := &testRow{Id: uuid.New(), Name: "late arrival"}
	h.publishRow(t, realtime.OpInsert, row)
	waitFor(t, func() bool { return h.engine.Len() == 1 })
}

func TestEngineInsertPrependsNewestFirst(t *testing.T) {
	existing := &testRow{Id: uuid.New(), Name: "existing"}
	h := newTestHarness(t, fixedRows(existing))
	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))

	first := &testRow{Id: uuid.New(), Name: "first insert"}
	second := &testRow{Id: uuid.New(), Name: "second insert"}
	h.publishRow(t, realtime.OpInsert, first)
	h.publishRow(t, realtime.OpInsert, second)

	waitFor(t, func() bool { return h.engine.Len() == 3 })
	snap := h.engine.Snapshot()
	assert.Equal(t, "second insert", snap[0].Name)
	assert.Equal(t, "first insert", snap[1].Name)
	assert.Equal(t, "existing", snap[2].Name)
}

func TestEngineInsertForCachedIdNeverDuplicates(t *testing.T) {
	existing := &testRow{Id: uuid.New(), Name: "original"}
	other := &testRow{Id: uuid.New(), Name: "other"}
	h := newTestHarness(t, fixedRows(other, existing))
	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))

	h.publishRow(t, realtime.OpInsert, &testRow{Id: existing.Id, Name: "replayed"})

	waitFor(t, func() bool {
		row, ok := h.engine.Get(existing.Id)
		return ok && row.Name == "replayed"
	})
	assert.Equal(t, 2, h.engine.Len())
	// Position preserved: replaced in place, not re-prepended.
	snap := h.engine.Snapshot()
	assert.Equal(t, "other", snap[0].Name)
	assert.Equal(t, "replayed", snap[1].Name)
}

func TestEngineUpdateReplacesAtSamePosition(t *testing.T) {
	a := &testRow{Id: uuid.New(), Name: "a"}
	b := &testRow{Id: uuid.New(), Name: "b"}
	c := &testRow{Id: uuid.New(), Name: "c"}
	h := newTestHarness(t, fixedRows(a, b, c))
	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))

	h.publishRow(t, realtime.OpUpdate, &testRow{Id: b.Id, Name: "b2"})

	waitFor(t, func() bool {
		row, ok := h.engine.Get(b.Id)
		return ok && row.Name == "b2"
	})
	snap := h.engine.Snapshot()
	assert.Equal(t, []string{"a", "b2", "c"}, []string{snap[0].Name, snap[1].Name, snap[2].Name})
}

func TestEngineUpdateForUnknownIdIsIgnored(t *testing.T) {
	existing := &testRow{Id: uuid.New(), Name: "existing"}
	h := newTestHarness(t, fixedRows(existing))
	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))

	h.publishRow(t, realtime.OpUpdate, &testRow{Id: uuid.New(), Name: "never fetched"})
	// An insert afterwards proves the update was consumed and dropped.
	marker := &testRow{Id: uuid.New(), Name: "marker"}
	h.publishRow(t, realtime.OpInsert, marker)

	waitFor(t, func() bool { return h.engine.Len() == 2 })
	_, ok := h.engine.Get(marker.Id)
	assert.True(t, ok)
	for _, row := range h.engine.Snapshot() {
		assert.NotEqual(t, "never fetched", row.Name)
	}
}

func TestEngineDeleteRemovesAndToleratesAbsentRows(t *testing.T) {
	a := &testRow{Id: uuid.New(), Name: "a"}
	b := &testRow{Id: uuid.New(), Name: "b"}
	c := &testRow{Id: uuid.New(), Name: "c"}
	h := newTestHarness(t, fixedRows(a, b, c))
	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))

	h.publishDelete(t, b.Id)
	waitFor(t, func() bool { return h.engine.Len() == 2 })

	// Replays and deletes for rows never cached are no-ops.
	h.publishDelete(t, b.Id)
	h.publishDelete(t, uuid.New())
	marker := &testRow{Id: uuid.New(), Name: "marker"}
	h.publishRow(t, realtime.OpInsert, marker)
	waitFor(t, func() bool { return h.engine.Len() == 3 })

	snap := h.engine.Snapshot()
	assert.Equal(t, []string{"marker", "a", "c"}, []string{snap[0].Name, snap[1].Name, snap[2].Name})
	// Index survived the positional shift.
	got, ok := h.engine.Get(c.Id)
	require.True(t, ok)
	assert.Equal(t, "c", got.Name)
}

func TestEngineDropsUndecodableRows(t *testing.T) {
	h := newTestHarness(t, fixedRows())
	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))

	event, err := realtime.NewRowEvent(testTable, realtime.OpInsert, uuid.New(), map[string]string{"id": "not-a-uuid"})
	require.NoError(t, err)
	require.NoError(t, h.bus.PublishChange(context.Background(), event))

	marker := &testRow{Id: uuid.New(), Name: "marker"}
	h.publishRow(t, realtime.OpInsert, marker)
	waitFor(t, func() bool { return h.engine.Len() == 1 })
	got, ok := h.engine.Get(marker.Id)
	require.True(t, ok)
	assert.Equal(t, "marker", got.Name)
}

func TestEngineFeedDropsRowsInvisibleToSession(t *testing.T) {
	session := uuid.New()

	bus := realtime.NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })
	manager := realtime.NewManager(bus, logger.Noop{})

	engine := NewEngine(Config[testRow]{
		Table:  testTable,
		ID:     func(r *testRow) uuid.UUID { return r.Id },
		Fetch:  fixedRows(),
		Decode: decodeTestRow,
		Visible: func(_ context.Context, sessionId uuid.UUID, r *testRow) bool {
			return r.Owner == sessionId
		},
	}, manager, logger.Noop{})
	t.Cleanup(engine.Stop)
	h := &testHarness{engine: engine, bus: bus, manager: manager}

	require.NoError(t, engine.Start(context.Background(), session))

	foreign := &testRow{Id: uuid.New(), Name: "foreign", Owner: uuid.New()}
	mine := &testRow{Id: uuid.New(), Name: "mine", Owner: session}
	h.publishRow(t, realtime.OpInsert, foreign)
	h.publishRow(t, realtime.OpInsert, mine)

	waitFor(t, func() bool { return engine.Len() == 1 })
	_, cached := engine.Get(foreign.Id)
	assert.False(t, cached)
	got, ok := engine.Get(mine.Id)
	require.True(t, ok)
	assert.Equal(t, "mine", got.Name)

	// Losing visibility evicts the cached entry.
	reassigned := *mine
	reassigned.Owner = uuid.New()
	h.publishRow(t, realtime.OpUpdate, &reassigned)
	waitFor(t, func() bool { return engine.Len() == 0 })
}

func TestEngineSessionChangeSwapsVisibleRows(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	perSession := map[uuid.UUID][]*testRow{
		alice: {{Id: uuid.New(), Name: "alice row"}},
		bob:   {{Id: uuid.New(), Name: "bob row 1"}, {Id: uuid.New(), Name: "bob row 2"}},
	}
	h := newTestHarness(t, func(ctx context.Context, sessionId uuid.UUID) ([]*testRow, error) {
		return perSession[sessionId], nil
	})

	require.NoError(t, h.engine.Start(context.Background(), alice))
	require.Equal(t, 1, h.engine.Len())

	h.engine.OnSessionChange(context.Background(), bob, alice)

	assert.Equal(t, 2, h.engine.Len())
	assert.Equal(t, bob, h.engine.Session())
	assert.Equal(t, 1, h.manager.Open())
	for _, row := range h.engine.Snapshot() {
		assert.NotEqual(t, "alice row", row.Name)
	}
}

func TestEngineLogoutClearsAndUnsubscribes(t *testing.T) {
	session := uuid.New()
	h := newTestHarness(t, fixedRows(&testRow{Id: uuid.New(), Name: "row"}))
	require.NoError(t, h.engine.Start(context.Background(), session))

	h.engine.OnSessionChange(context.Background(), uuid.Nil, session)

	assert.Zero(t, h.engine.Len())
	assert.False(t, h.engine.Subscribed())
	assert.Equal(t, 0, h.manager.Open())
}

func TestEngineDiscardsEventsFromPreviousSession(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	h := newTestHarness(t, fixedRows())
	require.NoError(t, h.engine.Start(context.Background(), alice))

	// Published before the switch; whether the old consumer drains it before
	// or after, it must not survive into bob's cache.
	stale := &testRow{Id: uuid.New(), Name: "stale"}
	h.publishRow(t, realtime.OpInsert, stale)
	h.engine.OnSessionChange(context.Background(), bob, alice)

	time.Sleep(50 * time.Millisecond)
	_, ok := h.engine.Get(stale.Id)
	assert.False(t, ok)
	assert.Equal(t, bob, h.engine.Session())
}

func TestEnginePatchReplacesOnlyCachedRows(t *testing.T) {
	row := &testRow{Id: uuid.New(), Name: "before"}
	h := newTestHarness(t, fixedRows(row))
	require.NoError(t, h.engine.Start(context.Background(), uuid.New()))

	assert.True(t, h.engine.Patch(&testRow{Id: row.Id, Name: "after"}))
	got, ok := h.engine.Get(row.Id)
	require.True(t, ok)
	assert.Equal(t, "after", got.Name)

	assert.False(t, h.engine.Patch(&testRow{Id: uuid.New(), Name: "unknown"}))
	assert.Equal(t, 1, h.engine.Len())
}

func TestEngineEnrichRunsOnFetchAndFeed(t *testing.T) {
	row := &testRow{Id: uuid.New(), Name: "plain"}

	bus := realtime.NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })
	manager := realtime.NewManager(bus, logger.Noop{})

	engine := NewEngine(Config[testRow]{
		Table:  testTable,
		ID:     func(r *testRow) uuid.UUID { return r.Id },
		Fetch:  fixedRows(row),
		Decode: decodeTestRow,
		Enrich: func(ctx context.Context, sessionId uuid.UUID, r *testRow) (*testRow, error) {
			out := *r
			out.Name = fmt.Sprintf("enriched %s", r.Name)
			return &out, nil
		},
	}, manager, logger.Noop{})
	t.Cleanup(engine.Stop)

	require.NoError(t, engine.Start(context.Background(), uuid.New()))
	got, ok := engine.Get(row.Id)
	require.True(t, ok)
	assert.Equal(t, "enriched plain", got.Name)

	fresh := &testRow{Id: uuid.New(), Name: "incoming"}
	event, err := realtime.NewRowEvent(testTable, realtime.OpInsert, fresh.Id, fresh)
	require.NoError(t, err)
	require.NoError(t, bus.PublishChange(context.Background(), event))

	waitFor(t, func() bool {
		got, ok := engine.Get(fresh.Id)
		return ok && got.Name == "enriched incoming"
	})
}

func TestEngineEnrichFailureKeepsBaseRow(t *testing.T) {
	row := &testRow{Id: uuid.New(), Name: "plain"}

	bus := realtime.NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })
	manager := realtime.NewManager(bus, logger.Noop{})

	engine := NewEngine(Config[testRow]{
		Table:  testTable,
		ID:     func(r *testRow) uuid.UUID { return r.Id },
		Fetch:  fixedRows(row),
		Decode: decodeTestRow,
		Enrich: func(ctx context.Context, sessionId uuid.UUID, r *testRow) (*testRow, error) {
			return nil, errors.New("profile service down")
		},
	}, manager, logger.Noop{})
	t.Cleanup(engine.Stop)

	require.NoError(t, engine.Start(context.Background(), uuid.New()))
	got, ok := engine.Get(row.Id)
	require.True(t, ok)
	assert.Equal(t, "plain", got.Name)
}
