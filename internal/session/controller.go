package session

import (
	"context"
	"sync"

	"ai-chat-sync/internal/pkg/logger"

	"github.com/google/uuid"
)

// Boundary is anything that must reset when the session identity changes.
// Cache engines implement it.
type Boundary interface {
	OnSessionChange(ctx context.Context, newId, oldId uuid.UUID)
}

// BoundaryFunc adapts a function to the Boundary interface.
type BoundaryFunc func(ctx context.Context, newId, oldId uuid.UUID)

func (f BoundaryFunc) OnSessionChange(ctx context.Context, newId, oldId uuid.UUID) {
	f(ctx, newId, oldId)
}

// Controller watches the identity source and fans every transition out to
// the registered boundaries, in registration order, before returning to the
// next transition. Boundaries therefore never observe a cache from the
// previous identity after their reset ran.
type Controller struct {
	source     Source
	boundaries []Boundary
	log        logger.ILogger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewController(source Source, log logger.ILogger) *Controller {
	return &Controller{source: source, log: log}
}

// Register adds a boundary. Must be called before Start.
func (c *Controller) Register(b Boundary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boundaries = append(c.boundaries, b)
}

// Start applies the current identity as an initial transition from unset,
// then keeps consuming the transition stream until Stop.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.started = true
	boundaries := c.boundaries
	c.mu.Unlock()

	if current := c.source.Current(); current != uuid.Nil {
		c.apply(runCtx, boundaries, Transition{New: current, Old: uuid.Nil})
	}

	go func() {
		defer close(c.done)
		for {
			select {
			case <-runCtx.Done():
				return
			case tr := <-c.source.Transitions():
				c.apply(runCtx, boundaries, tr)
			}
		}
	}()
}

func (c *Controller) apply(ctx context.Context, boundaries []Boundary, tr Transition) {
	c.log.Info("Session", "Identity transition", map[string]interface{}{
		"old": tr.Old.String(),
		"new": tr.New.String(),
	})
	for _, b := range boundaries {
		b.OnSessionChange(ctx, tr.New, tr.Old)
	}
}

// Stop halts transition processing. Boundaries keep their last state.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.cancel()
	done := c.done
	c.started = false
	c.mu.Unlock()

	<-done
}
