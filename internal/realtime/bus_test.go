package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-chat-sync/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, sub *Subscription) ChangeEvent {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return ChangeEvent{}
	}
}

func TestBusDeliversEventsInOrder(t *testing.T) {
	bus := NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })

	sub, err := bus.Subscribe(context.Background(), "chats")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// A burst of back-to-back publishes must come out in emission order;
	// the caches build their prefix ordering on top of this.
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = uuid.New()
	}
	for _, id := range ids {
		event, err := NewRowEvent("chats", OpInsert, id, map[string]string{"id": id.String()})
		require.NoError(t, err)
		require.NoError(t, bus.PublishChange(context.Background(), event))
	}

	for _, want := range ids {
		got := receiveEvent(t, sub)
		assert.Equal(t, want, got.RowId)
		assert.Equal(t, OpInsert, got.Op)
	}
}

func TestBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })

	first, err := bus.Subscribe(context.Background(), "chats")
	require.NoError(t, err)
	defer first.Unsubscribe()
	second, err := bus.Subscribe(context.Background(), "chats")
	require.NoError(t, err)
	defer second.Unsubscribe()

	id := uuid.New()
	event, err := NewRowEvent("chats", OpUpdate, id, map[string]string{"id": id.String()})
	require.NoError(t, err)
	require.NoError(t, bus.PublishChange(context.Background(), event))

	assert.Equal(t, id, receiveEvent(t, first).RowId)
	assert.Equal(t, id, receiveEvent(t, second).RowId)
}

func TestBusIsolatesTables(t *testing.T) {
	bus := NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })

	chats, err := bus.Subscribe(context.Background(), "chats")
	require.NoError(t, err)
	defer chats.Unsubscribe()

	event, err := NewRowEvent("workspaces", OpInsert, uuid.New(), map[string]string{"name": "w"})
	require.NoError(t, err)
	require.NoError(t, bus.PublishChange(context.Background(), event))

	select {
	case got := <-chats.Events():
		t.Fatalf("chats subscriber received %s event for table %s", got.Op, got.Table)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusRejectsInvalidEvents(t *testing.T) {
	bus := NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })

	tests := []struct {
		name  string
		event ChangeEvent
	}{
		{"missing table", ChangeEvent{Op: OpInsert, RowId: uuid.New(), Row: json.RawMessage(`{}`)}},
		{"unknown op", ChangeEvent{Table: "chats", Op: "truncate", RowId: uuid.New(), Row: json.RawMessage(`{}`)}},
		{"missing row id", ChangeEvent{Table: "chats", Op: OpInsert, Row: json.RawMessage(`{}`)}},
		{"insert without payload", ChangeEvent{Table: "chats", Op: OpInsert, RowId: uuid.New()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, bus.PublishChange(context.Background(), tt.event))
		})
	}

	// Delete needs no payload.
	assert.NoError(t, bus.PublishChange(context.Background(), NewDeleteEvent("chats", uuid.New())))
}

func TestSubscriptionUnsubscribeClosesEvents(t *testing.T) {
	bus := NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })

	sub, err := bus.Subscribe(context.Background(), "chats")
	require.NoError(t, err)

	sub.Unsubscribe()
	sub.Unsubscribe() // second call is a no-op

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Events():
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestManagerEnforcesSingleHandlePerTable(t *testing.T) {
	bus := NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })
	m := NewManager(bus, logger.Noop{})

	first, err := m.Subscribe(context.Background(), "chats")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Open())

	// Resubscribing closes the stale handle instead of stacking a second one.
	second, err := m.Subscribe(context.Background(), "chats")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Open())

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-first.Events():
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	// The replacement handle still receives events.
	id := uuid.New()
	event, err := NewRowEvent("chats", OpInsert, id, map[string]string{"id": id.String()})
	require.NoError(t, err)
	require.NoError(t, bus.PublishChange(context.Background(), event))
	assert.Equal(t, id, receiveEvent(t, second).RowId)
}

func TestManagerReleaseAndReleaseAll(t *testing.T) {
	bus := NewBus(logger.Noop{})
	t.Cleanup(func() { bus.Close() })
	m := NewManager(bus, logger.Noop{})

	_, err := m.Subscribe(context.Background(), "chats")
	require.NoError(t, err)
	_, err = m.Subscribe(context.Background(), "workspaces")
	require.NoError(t, err)
	require.Equal(t, 2, m.Open())

	m.Release("chats")
	assert.Equal(t, 1, m.Open())
	m.Release("chats") // absent table is a no-op
	assert.Equal(t, 1, m.Open())

	m.ReleaseAll()
	assert.Equal(t, 0, m.Open())
}
