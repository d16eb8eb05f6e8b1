package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-chat-sync/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBoundary struct {
	mu          sync.Mutex
	name        string
	transitions []Transition
	order       *[]string
}

func (b *recordingBoundary) OnSessionChange(ctx context.Context, newId, oldId uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitions = append(b.transitions, Transition{New: newId, Old: oldId})
	if b.order != nil {
		*b.order = append(*b.order, b.name)
	}
}

func (b *recordingBoundary) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.transitions)
}

func (b *recordingBoundary) last() Transition {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transitions[len(b.transitions)-1]
}

func TestIdentitySourceEmitsTransitions(t *testing.T) {
	s := NewIdentitySource()

	alice := uuid.New()
	s.Set(alice)
	assert.Equal(t, alice, s.Current())

	tr := <-s.Transitions()
	assert.Equal(t, Transition{New: alice, Old: uuid.Nil}, tr)

	// Same identity again emits nothing.
	s.Set(alice)
	select {
	case tr := <-s.Transitions():
		t.Fatalf("unexpected transition %+v", tr)
	case <-time.After(20 * time.Millisecond):
	}

	s.Clear()
	tr = <-s.Transitions()
	assert.Equal(t, Transition{New: uuid.Nil, Old: alice}, tr)
	assert.Equal(t, uuid.Nil, s.Current())
}

func TestControllerFansOutInRegistrationOrder(t *testing.T) {
	source := NewIdentitySource()
	c := NewController(source, logger.Noop{})

	var order []string
	first := &recordingBoundary{name: "first", order: &order}
	second := &recordingBoundary{name: "second", order: &order}
	c.Register(first)
	c.Register(second)

	c.Start(context.Background())
	t.Cleanup(c.Stop)

	alice := uuid.New()
	source.Set(alice)

	assert.Eventually(t, func() bool {
		return first.count() == 1 && second.count() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, Transition{New: alice, Old: uuid.Nil}, first.last())
}

func TestControllerAppliesIdentityActiveAtStart(t *testing.T) {
	source := NewIdentitySource()
	alice := uuid.New()
	source.Set(alice)
	// Drain the transition Set emitted before the controller existed; the
	// controller must still see alice via Current().
	<-source.Transitions()

	c := NewController(source, logger.Noop{})
	b := &recordingBoundary{name: "b"}
	c.Register(b)

	c.Start(context.Background())
	t.Cleanup(c.Stop)

	require.Equal(t, 1, b.count())
	assert.Equal(t, Transition{New: alice, Old: uuid.Nil}, b.last())
}

func TestControllerDeliversLoginLogoutLoginSequence(t *testing.T) {
	source := NewIdentitySource()
	c := NewController(source, logger.Noop{})
	b := &recordingBoundary{name: "b"}
	c.Register(b)

	c.Start(context.Background())
	t.Cleanup(c.Stop)

	alice := uuid.New()
	bob := uuid.New()
	source.Set(alice)
	source.Clear()
	source.Set(bob)

	assert.Eventually(t, func() bool { return b.count() == 3 }, time.Second, 5*time.Millisecond)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, Transition{New: alice, Old: uuid.Nil}, b.transitions[0])
	assert.Equal(t, Transition{New: uuid.Nil, Old: alice}, b.transitions[1])
	assert.Equal(t, Transition{New: bob, Old: uuid.Nil}, b.transitions[2])
}

func TestControllerStopHaltsDelivery(t *testing.T) {
	source := NewIdentitySource()
	c := NewController(source, logger.Noop{})
	b := &recordingBoundary{name: "b"}
	c.Register(b)

	c.Start(context.Background())
	c.Stop()

	source.Set(uuid.New())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, b.count())
}
