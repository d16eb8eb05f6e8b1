package realtime

import (
	"context"
	"sync"

	"ai-chat-sync/internal/pkg/logger"
)

// Manager enforces the single-subscription invariant: at most one live
// handle per table for the process. Resubscribing closes the previous
// handle first.
type Manager struct {
	feed Feed
	log  logger.ILogger

	mu   sync.Mutex
	subs map[string]*Subscription
}

func NewManager(feed Feed, log logger.ILogger) *Manager {
	return &Manager{
		feed: feed,
		log:  log,
		subs: make(map[string]*Subscription),
	}
}

func (m *Manager) Subscribe(ctx context.Context, table string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.subs[table]; ok {
		// A stale handle here means someone skipped Release; close it before
		// opening the replacement.
		m.log.Warn("Realtime", "Closing stale subscription before resubscribe", map[string]interface{}{
			"table": table,
		})
		prev.Unsubscribe()
		delete(m.subs, table)
	}

	sub, err := m.feed.Subscribe(ctx, table)
	if err != nil {
		return nil, err
	}
	m.subs[table] = sub
	return sub, nil
}

// Release closes the live handle for a table. No-op when none is open.
func (m *Manager) Release(table string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, ok := m.subs[table]; ok {
		sub.Unsubscribe()
		delete(m.subs, table)
	}
}

// Open reports the number of live handles. Used by lifecycle checks and tests.
func (m *Manager) Open() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// ReleaseAll closes every live handle.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for table, sub := range m.subs {
		sub.Unsubscribe()
		delete(m.subs, table)
	}
}
