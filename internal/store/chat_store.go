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
	"ai-chat-sync/internal/service"

	"github.com/google/uuid"
)

// DisplayNameNoMembers is shown for a private chat whose membership rows are
// missing entirely.
const DisplayNameNoMembers = "no members"

// ChatStore mirrors the chats visible to the active session. Two-party
// private chats get their display name and avatar resolved from the
// counterpart member's profile before entering the cache.
type ChatStore struct {
	engine   *cache.Engine[entity.Chat]
	repo     contract.ChatRepository
	members  contract.ChatMemberRepository
	profiles service.IProfileService
	writer   *throttledWriter
	log      logger.ILogger
}

func NewChatStore(
	repo contract.ChatRepository,
	members contract.ChatMemberRepository,
	profiles service.IProfileService,
	subs cache.Subscriber,
	queue *WriteQueue,
	throttle time.Duration,
	log logger.ILogger,
) *ChatStore {
	s := &ChatStore{
		repo:     repo,
		members:  members,
		profiles: profiles,
		log:      log,
	}

	m := mapper.NewChatMapper()
	table := model.Chat{}.TableName()

	s.engine = cache.NewEngine(cache.Config[entity.Chat]{
		Table: table,
		ID:    func(c *entity.Chat) uuid.UUID { return c.Id },
		Fetch: func(ctx context.Context, sessionId uuid.UUID) ([]*entity.Chat, error) {
			return repo.FindAll(ctx,
				specification.VisibleToUser{UserID: sessionId},
				specification.NewestFirst{},
			)
		},
		Decode:  m.DecodeRow,
		Visible: s.visibleTo,
		Enrich:  s.enrich,
	}, subs, log)

	s.writer = newThrottledWriter(table, throttle, queue)
	return s
}

// visibleTo mirrors the fetch-side visibility filter for feed rows. The
// change feed carries every committed chat; the session keeps only chats it
// owns, public chats, and chats it is a member of.
func (s *ChatStore) visibleTo(ctx context.Context, sessionId uuid.UUID, chat *entity.Chat) bool {
	if chat.OwnerId == sessionId || chat.Kind == entity.ChatKindPublic {
		return true
	}
	members, err := s.members.FindAll(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.ByUserID{UserID: sessionId},
	)
	if err != nil {
		s.log.Warn("ChatStore", "Membership check failed, dropping feed row", map[string]interface{}{
			"chat_id": chat.Id,
			"error":   err.Error(),
		})
		return false
	}
	for _, member := range members {
		if member.UserId == sessionId {
			return true
		}
	}
	return false
}

// enrich resolves the counterpart display name for exactly-two-party private
// chats. Group, workspace and public chats keep the stored name verbatim.
// Lookup failures degrade the name instead of failing the cache update.
func (s *ChatStore) enrich(ctx context.Context, sessionId uuid.UUID, chat *entity.Chat) (*entity.Chat, error) {
	if !chat.NeedsEnrichment() {
		return chat, nil
	}

	out := *chat

	members, err := s.members.FindAll(ctx, specification.ByChatID{ChatID: chat.Id})
	if err != nil {
		s.log.Warn("ChatStore", "Member lookup failed, using stored name", map[string]interface{}{
			"chat_id": chat.Id,
			"error":   err.Error(),
		})
		return &out, nil
	}
	if len(members) == 0 {
		out.DisplayName = DisplayNameNoMembers
		return &out, nil
	}
	if len(members) != 2 {
		return &out, nil
	}

	var counterpart *entity.ChatMember
	for _, member := range members {
		if member.UserId != sessionId {
			counterpart = member
			break
		}
	}
	if counterpart == nil {
		return &out, nil
	}

	profile, err := s.profiles.Profile(ctx, counterpart.UserId)
	if err != nil {
		s.log.Warn("ChatStore", "Profile lookup failed, using stored name", map[string]interface{}{
			"chat_id": chat.Id,
			"user_id": counterpart.UserId,
			"error":   err.Error(),
		})
		return &out, nil
	}
	if profile == nil || profile.Name == "" {
		if out.DisplayName == "" {
			out.DisplayName = out.Name
		}
		return &out, nil
	}

	out.DisplayName = profile.Name
	out.Avatar = profile.Avatar
	return &out, nil
}

// OnSessionChange implements session.Boundary. The profile cache holds
// per-user display names, so it flushes with the session.
func (s *ChatStore) OnSessionChange(ctx context.Context, newId, oldId uuid.UUID) {
	s.writer.Reset()
	s.profiles.Flush()
	s.engine.OnSessionChange(ctx, newId, oldId)
}

func (s *ChatStore) Stop() {
	s.writer.FlushAll()
	s.engine.Stop()
}

func (s *ChatStore) Chats() []*entity.Chat {
	return s.engine.Snapshot()
}

func (s *ChatStore) Get(id uuid.UUID) (*entity.Chat, bool) {
	return s.engine.Get(id)
}

func (s *ChatStore) Add(ctx context.Context, chat *entity.Chat) error {
	return s.repo.Create(ctx, chat)
}

// AddMember adds a participant. Membership rows feed enrichment; the chat
// row's own change event refreshes the cache entry.
func (s *ChatStore) AddMember(ctx context.Context, member *entity.ChatMember) error {
	return s.members.Add(ctx, member)
}

func (s *ChatStore) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *ChatStore) Update(ctx context.Context, chat *entity.Chat) {
	s.engine.Patch(chat)

	row := *chat
	s.writer.Queue(ctx, row.Id, func(ctx context.Context) error {
		c := row
		return s.repo.Update(ctx, &c)
	})
}
