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

// recentMessageLimit bounds the initial fetch; older history is paged from
// the repository on demand, not mirrored.
const recentMessageLimit = 500

// MessageStore mirrors recent messages across the session's chats.
type MessageStore struct {
	engine *cache.Engine[entity.ChatMessage]
	repo   contract.ChatMessageRepository
	writer *throttledWriter
}

func NewMessageStore(
	repo contract.ChatMessageRepository,
	members contract.ChatMemberRepository,
	subs cache.Subscriber,
	queue *WriteQueue,
	throttle time.Duration,
	log logger.ILogger,
) *MessageStore {
	m := mapper.NewMessageMapper()
	table := model.ChatMessage{}.TableName()

	engine := cache.NewEngine(cache.Config[entity.ChatMessage]{
		Table: table,
		ID:    func(msg *entity.ChatMessage) uuid.UUID { return msg.Id },
		Fetch: func(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
			return repo.FindAll(ctx,
				specification.MessagesVisibleToUser{UserID: sessionId},
				specification.NewestFirst{},
				specification.Limit{N: recentMessageLimit},
			)
		},
		Decode: m.DecodeRow,
		Visible: func(ctx context.Context, sessionId uuid.UUID, msg *entity.ChatMessage) bool {
			if msg.SenderId == sessionId {
				return true
			}
			rows, err := members.FindAll(ctx,
				specification.ByChatID{ChatID: msg.ChatId},
				specification.ByUserID{UserID: sessionId},
			)
			if err != nil {
				log.Warn("MessageStore", "Membership check failed, dropping feed row", map[string]interface{}{
					"chat_id": msg.ChatId,
					"error":   err.Error(),
				})
				return false
			}
			for _, row := range rows {
				if row.UserId == sessionId {
					return true
				}
			}
			return false
		},
	}, subs, log)

	return &MessageStore{
		engine: engine,
		repo:   repo,
		writer: newThrottledWriter(table, throttle, queue),
	}
}

// OnSessionChange implements session.Boundary.
func (s *MessageStore) OnSessionChange(ctx context.Context, newId, oldId uuid.UUID) {
	s.writer.Reset()
	s.engine.OnSessionChange(ctx, newId, oldId)
}

func (s *MessageStore) Stop() {
	s.writer.FlushAll()
	s.engine.Stop()
}

func (s *MessageStore) Messages() []*entity.ChatMessage {
	return s.engine.Snapshot()
}

// MessagesForChat filters the mirror for one chat, newest first.
func (s *MessageStore) MessagesForChat(chatId uuid.UUID) []*entity.ChatMessage {
	all := s.engine.Snapshot()
	out := make([]*entity.ChatMessage, 0, len(all))
	for _, msg := range all {
		if msg.ChatId == chatId {
			out = append(out, msg)
		}
	}
	return out
}

func (s *MessageStore) Get(id uuid.UUID) (*entity.ChatMessage, bool) {
	return s.engine.Get(id)
}

func (s *MessageStore) Add(ctx context.Context, message *entity.ChatMessage) error {
	return s.repo.Create(ctx, message)
}

func (s *MessageStore) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Update serves draft-style edits of a sent message.
func (s *MessageStore) Update(ctx context.Context, message *entity.ChatMessage) {
	s.engine.Patch(message)

	row := *message
	s.writer.Queue(ctx, row.Id, func(ctx context.Context) error {
		m := row
		return s.repo.Update(ctx, &m)
	})
}
