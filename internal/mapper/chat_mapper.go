package mapper

import (
	"encoding/json"
	"fmt"

	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// ToEntity maps the raw chat row. DisplayName starts as the stored name; the
// chat store resolves the counterpart profile name afterwards for two-party
// private chats.
func (m *ChatMapper) ToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	return &entity.Chat{
		Id:          c.Id,
		WorkspaceId: c.WorkspaceId,
		Name:        c.Name,
		DisplayName: c.Name,
		Kind:        c.Kind,
		OwnerId:     c.OwnerId,
		Avatar:      decodeAvatar(nil, c.Name),
		Metadata:    decodeMetadata(c.Metadata),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAtPtr(c.UpdatedAt),
	}
}

// ToModel maps back to the raw row shape. DisplayName and Avatar are derived
// fields and never written to the remote store.
func (m *ChatMapper) ToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	out := &model.Chat{
		Id:          c.Id,
		WorkspaceId: c.WorkspaceId,
		Name:        c.Name,
		Kind:        c.Kind,
		OwnerId:     c.OwnerId,
		Metadata:    encodeMetadata(c.Metadata),
		CreatedAt:   c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		out.UpdatedAt = *c.UpdatedAt
	}
	return out
}

func (m *ChatMapper) MemberToModel(mm *entity.ChatMember) *model.ChatMember {
	if mm == nil {
		return nil
	}

	return &model.ChatMember{
		Id:       mm.Id,
		ChatId:   mm.ChatId,
		UserId:   mm.UserId,
		JoinedAt: mm.JoinedAt,
	}
}

func (m *ChatMapper) DecodeRow(raw json.RawMessage) (*entity.Chat, error) {
	var row model.Chat
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode chat row: %w: %v", ErrInvalidRow, err)
	}
	if err := requireRow(row.Id, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("decode chat row: %w", err)
	}
	return m.ToEntity(&row), nil
}

func (m *ChatMapper) MemberToEntity(mm *model.ChatMember) *entity.ChatMember {
	if mm == nil {
		return nil
	}

	return &entity.ChatMember{
		Id:       mm.Id,
		ChatId:   mm.ChatId,
		UserId:   mm.UserId,
		JoinedAt: mm.JoinedAt,
	}
}

func (m *ChatMapper) ProfileToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}

	return &entity.Profile{
		Id:        p.Id,
		Name:      p.Name,
		Avatar:    decodeAvatar(p.Avatar, p.Name),
		CreatedAt: p.CreatedAt,
	}
}
