package dto

import (
	"time"

	"ai-chat-sync/internal/entity"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	WorkspaceId *uuid.UUID             `json:"workspace_id"`
	Name        string                 `json:"name"`
	Kind        string                 `json:"kind" validate:"required,oneof=private group workspace public"`
	MemberIds   []uuid.UUID            `json:"member_ids"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type UpdateChatRequest struct {
	Id       uuid.UUID
	Name     string                 `json:"name" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type ChatResponse struct {
	Id          uuid.UUID              `json:"id"`
	WorkspaceId *uuid.UUID             `json:"workspace_id"`
	Name        string                 `json:"name"`
	DisplayName string                 `json:"display_name"`
	Kind        string                 `json:"kind"`
	OwnerId     uuid.UUID              `json:"owner_id"`
	Avatar      AvatarResponse         `json:"avatar"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at"`
}

func NewChatResponse(c *entity.Chat) ChatResponse {
	return ChatResponse{
		Id:          c.Id,
		WorkspaceId: c.WorkspaceId,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Kind:        c.Kind,
		OwnerId:     c.OwnerId,
		Avatar:      NewAvatarResponse(c.Avatar),
		Metadata:    c.Metadata,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewChatResponses(list []*entity.Chat) []ChatResponse {
	out := make([]ChatResponse, len(list))
	for i, c := range list {
		out[i] = NewChatResponse(c)
	}
	return out
}
