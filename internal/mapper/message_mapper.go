package mapper

import (
	"encoding/json"
	"fmt"

	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	return &entity.ChatMessage{
		Id:        msg.Id,
		ChatId:    msg.ChatId,
		SenderId:  msg.SenderId,
		Content:   msg.Content,
		Metadata:  decodeMetadata(msg.Metadata),
		CreatedAt: msg.CreatedAt,
		UpdatedAt: updatedAtPtr(msg.UpdatedAt),
	}
}

func (m *MessageMapper) ToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	out := &model.ChatMessage{
		Id:        msg.Id,
		ChatId:    msg.ChatId,
		SenderId:  msg.SenderId,
		Content:   msg.Content,
		Metadata:  encodeMetadata(msg.Metadata),
		CreatedAt: msg.CreatedAt,
	}
	if msg.UpdatedAt != nil {
		out.UpdatedAt = *msg.UpdatedAt
	}
	return out
}

func (m *MessageMapper) DecodeRow(raw json.RawMessage) (*entity.ChatMessage, error) {
	var row model.ChatMessage
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode chat message row: %w: %v", ErrInvalidRow, err)
	}
	if err := requireRow(row.Id, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("decode chat message row: %w", err)
	}
	return m.ToEntity(&row), nil
}
