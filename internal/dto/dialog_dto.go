package dto

import (
	"time"

	"ai-chat-sync/internal/entity"

	"github.com/google/uuid"
)

type CreateDialogRequest struct {
	WorkspaceId   uuid.UUID              `json:"workspace_id" validate:"required"`
	AssistantId   *uuid.UUID             `json:"assistant_id"`
	Name          string                 `json:"name" validate:"required"`
	ModelSettings map[string]interface{} `json:"model_settings"`
}

type UpdateDialogRequest struct {
	Id            uuid.UUID
	Name          string                 `json:"name"`
	ModelSettings map[string]interface{} `json:"model_settings"`
}

type DialogResponse struct {
	Id            uuid.UUID              `json:"id"`
	WorkspaceId   uuid.UUID              `json:"workspace_id"`
	AssistantId   *uuid.UUID             `json:"assistant_id"`
	OwnerId       uuid.UUID              `json:"owner_id"`
	Name          string                 `json:"name"`
	Avatar        AvatarResponse         `json:"avatar"`
	ModelSettings map[string]interface{} `json:"model_settings"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     *time.Time             `json:"updated_at"`
}

func NewDialogResponse(d *entity.Dialog) DialogResponse {
	return DialogResponse{
		Id:            d.Id,
		WorkspaceId:   d.WorkspaceId,
		AssistantId:   d.AssistantId,
		OwnerId:       d.OwnerId,
		Name:          d.Name,
		Avatar:        NewAvatarResponse(d.Avatar),
		ModelSettings: d.ModelSettings,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func NewDialogResponses(list []*entity.Dialog) []DialogResponse {
	out := make([]DialogResponse, len(list))
	for i, d := range list {
		out[i] = NewDialogResponse(d)
	}
	return out
}
