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

// DialogStore mirrors the session's assistant dialogs. Model settings are
// the classic no-save-button surface, so Update is the hot path here.
type DialogStore struct {
	engine *cache.Engine[entity.Dialog]
	repo   contract.DialogRepository
	writer *throttledWriter
}

func NewDialogStore(
	repo contract.DialogRepository,
	subs cache.Subscriber,
	queue *WriteQueue,
	throttle time.Duration,
	log logger.ILogger,
) *DialogStore {
	m := mapper.NewDialogMapper()
	table := model.Dialog{}.TableName()

	engine := cache.NewEngine(cache.Config[entity.Dialog]{
		Table: table,
		ID:    func(d *entity.Dialog) uuid.UUID { return d.Id },
		Fetch: func(ctx context.Context, sessionId uuid.UUID) ([]*entity.Dialog, error) {
			return repo.FindAll(ctx,
				specification.ByOwnerID{OwnerID: sessionId},
				specification.NewestFirst{},
			)
		},
		Decode: m.DecodeRow,
		Visible: func(_ context.Context, sessionId uuid.UUID, d *entity.Dialog) bool {
			return d.OwnerId == sessionId
		},
	}, subs, log)

	return &DialogStore{
		engine: engine,
		repo:   repo,
		writer: newThrottledWriter(table, throttle, queue),
	}
}

// OnSessionChange implements session.Boundary.
func (s *DialogStore) OnSessionChange(ctx context.Context, newId, oldId uuid.UUID) {
	s.writer.Reset()
	s.engine.OnSessionChange(ctx, newId, oldId)
}

func (s *DialogStore) Stop() {
	s.writer.FlushAll()
	s.engine.Stop()
}

func (s *DialogStore) Dialogs() []*entity.Dialog {
	return s.engine.Snapshot()
}

func (s *DialogStore) Get(id uuid.UUID) (*entity.Dialog, bool) {
	return s.engine.Get(id)
}

func (s *DialogStore) Add(ctx context.Context, dialog *entity.Dialog) error {
	return s.repo.Create(ctx, dialog)
}

func (s *DialogStore) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *DialogStore) Update(ctx context.Context, dialog *entity.Dialog) {
	s.engine.Patch(dialog)

	row := *dialog
	s.writer.Queue(ctx, row.Id, func(ctx context.Context) error {
		d := row
		return s.repo.Update(ctx, &d)
	})
}
