package store

import (
	"context"
	"time"

	"ai-chat-sync/internal/cache"
	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/mapper"
	"ai-chat-sync/internal/model"
	"ai-chat-sync/internal/pkg/logger"
	"ai-chat-sync/internal/repository/contract"
	"ai-chat-sync/internal/repository/specification"

	"github.com/google/uuid"
)

// WorkspaceStore mirrors the workspaces visible to the active session and
// carries their outbound mutations.
type WorkspaceStore struct {
	engine *cache.Engine[entity.Workspace]
	repo   contract.WorkspaceRepository
	writer *throttledWriter
}

func NewWorkspaceStore(
	repo contract.WorkspaceRepository,
	subs cache.Subscriber,
	queue *WriteQueue,
	throttle time.Duration,
	log logger.ILogger,
) *WorkspaceStore {
	m := mapper.NewWorkspaceMapper()
	table := model.Workspace{}.TableName()

	engine := cache.NewEngine(cache.Config[entity.Workspace]{
		Table: table,
		ID:    func(w *entity.Workspace) uuid.UUID { return w.Id },
		Fetch: func(ctx context.Context, sessionId uuid.UUID) ([]*entity.Workspace, error) {
			return repo.FindAll(ctx,
				specification.ByOwnerID{OwnerID: sessionId},
				specification.NewestFirst{},
			)
		},
		Decode: m.DecodeRow,
		Visible: func(_ context.Context, sessionId uuid.UUID, w *entity.Workspace) bool {
			return w.OwnerId == sessionId
		},
	}, subs, log)

	return &WorkspaceStore{
		engine: engine,
		repo:   repo,
		writer: newThrottledWriter(table, throttle, queue),
	}
}

// OnSessionChange implements session.Boundary.
func (s *WorkspaceStore) OnSessionChange(ctx context.Context, newId, oldId uuid.UUID) {
	s.writer.Reset()
	s.engine.OnSessionChange(ctx, newId, oldId)
}

func (s *WorkspaceStore) Stop() {
	s.writer.FlushAll()
	s.engine.Stop()
}

func (s *WorkspaceStore) Workspaces() []*entity.Workspace {
	return s.engine.Snapshot()
}

func (s *WorkspaceStore) Get(id uuid.UUID) (*entity.Workspace, bool) {
	return s.engine.Get(id)
}

// Add writes through to the remote store; the cache is patched by the
// confirming insert event, not optimistically.
func (s *WorkspaceStore) Add(ctx context.Context, workspace *entity.Workspace) error {
	return s.repo.Create(ctx, workspace)
}

func (s *WorkspaceStore) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Update serves no-save-button edits: the cache entry is replaced
// immediately and the remote write is throttled, last edit per row winning
// the window. Flush outcomes surface on the shared write queue.
func (s *WorkspaceStore) Update(ctx context.Context, workspace *entity.Workspace) {
	s.engine.Patch(workspace)

	row := *workspace
	s.writer.Queue(ctx, row.Id, func(ctx context.Context) error {
		w := row
		return s.repo.Update(ctx, &w)
	})
}
