package store

import (
	"sync"
	"time"
)

// Throttle coalesces no-save-button writes: calls inside one window replace
// the pending function, and exactly the last one runs when the window
// elapses. At most one execution per window per instance.
type Throttle struct {
	interval time.Duration

	mu      sync.Mutex
	pending func()
	timer   *time.Timer
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Do queues fn. If a flush is already scheduled, fn replaces the queued
// function (last write wins); otherwise a flush is scheduled one interval
// from now.
func (t *Throttle) Do(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = fn
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.interval, t.flush)
}

func (t *Throttle) flush() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel drops the pending function and the scheduled flush.
func (t *Throttle) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
}

// Flush runs any pending function immediately and cancels the scheduled
// flush. Used on teardown so a queued write is not lost.
func (t *Throttle) Flush() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	fn := t.pending
	t.pending = nil
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}
