package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"ai-chat-sync/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 20 * time.Millisecond

func TestThrottleRunsOnlyLastCallPerWindow(t *testing.T) {
	th := NewThrottle(testInterval)

	var ran atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 3; i++ {
		i := i
		th.Do(func() {
			ran.Add(1)
			last.Store(int32(i))
		})
	}

	assert.Eventually(t, func() bool { return ran.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(3), last.Load())

	// Nothing else fires after the window.
	time.Sleep(2 * testInterval)
	assert.Equal(t, int32(1), ran.Load())
}

func TestThrottleSeparateWindowsFireSeparately(t *testing.T) {
	th := NewThrottle(testInterval)

	var ran atomic.Int32
	th.Do(func() { ran.Add(1) })
	assert.Eventually(t, func() bool { return ran.Load() == 1 }, time.Second, time.Millisecond)

	th.Do(func() { ran.Add(1) })
	assert.Eventually(t, func() bool { return ran.Load() == 2 }, time.Second, time.Millisecond)
}

func TestThrottleCancelDropsPending(t *testing.T) {
	th := NewThrottle(testInterval)

	var ran atomic.Int32
	th.Do(func() { ran.Add(1) })
	th.Cancel()

	time.Sleep(2 * testInterval)
	assert.Equal(t, int32(0), ran.Load())
}

func TestThrottleFlushRunsPendingImmediately(t *testing.T) {
	th := NewThrottle(time.Hour)

	var ran atomic.Int32
	th.Do(func() { ran.Add(1) })
	th.Flush()

	assert.Equal(t, int32(1), ran.Load())

	// Flush with nothing pending is a no-op.
	th.Flush()
	assert.Equal(t, int32(1), ran.Load())
}

func TestThrottledWriterCoalescesPerRow(t *testing.T) {
	queue := NewWriteQueue(16, logger.Noop{})
	t.Cleanup(queue.Close)
	w := newThrottledWriter("rows", testInterval, queue)

	rowA := uuid.New()
	rowB := uuid.New()
	var aWrites, bWrites atomic.Int32
	var aLast atomic.Int32

	for i := 1; i <= 3; i++ {
		i := i
		w.Queue(context.Background(), rowA, func(ctx context.Context) error {
			aWrites.Add(1)
			aLast.Store(int32(i))
			return nil
		})
	}
	w.Queue(context.Background(), rowB, func(ctx context.Context) error {
		bWrites.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool {
		return aWrites.Load() == 1 && bWrites.Load() == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, int32(3), aLast.Load())

	// Both rows flushed independently; row A ran once despite three edits.
	time.Sleep(2 * testInterval)
	assert.Equal(t, int32(1), aWrites.Load())
}

func TestThrottledWriterResetDropsPendingWrites(t *testing.T) {
	queue := NewWriteQueue(16, logger.Noop{})
	t.Cleanup(queue.Close)
	w := newThrottledWriter("rows", testInterval, queue)

	var writes atomic.Int32
	w.Queue(context.Background(), uuid.New(), func(ctx context.Context) error {
		writes.Add(1)
		return nil
	})
	w.Reset()

	time.Sleep(2 * testInterval)
	assert.Equal(t, int32(0), writes.Load())
}

func TestThrottledWriterFlushAllForcesPendingWrites(t *testing.T) {
	queue := NewWriteQueue(16, logger.Noop{})
	w := newThrottledWriter("rows", time.Hour, queue)

	var writes atomic.Int32
	w.Queue(context.Background(), uuid.New(), func(ctx context.Context) error {
		writes.Add(1)
		return nil
	})
	w.FlushAll()
	queue.Close()

	require.Equal(t, int32(1), writes.Load())
}
