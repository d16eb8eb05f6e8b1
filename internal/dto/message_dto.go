package dto

import (
	"time"

	"ai-chat-sync/internal/entity"

	"github.com/google/uuid"
)

type CreateMessageRequest struct {
	ChatId   uuid.UUID              `json:"chat_id" validate:"required"`
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type UpdateMessageRequest struct {
	Id      uuid.UUID
	Content string `json:"content" validate:"required"`
}

type MessageResponse struct {
	Id        uuid.UUID              `json:"id"`
	ChatId    uuid.UUID              `json:"chat_id"`
	SenderId  uuid.UUID              `json:"sender_id"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at"`
}

func NewMessageResponse(m *entity.ChatMessage) MessageResponse {
	return MessageResponse{
		Id:        m.Id,
		ChatId:    m.ChatId,
		SenderId:  m.SenderId,
		Content:   m.Content,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewMessageResponses(list []*entity.ChatMessage) []MessageResponse {
	out := make([]MessageResponse, len(list))
	for i, m := range list {
		out[i] = NewMessageResponse(m)
	}
	return out
}
