package dto

import (
	"time"

	"ai-chat-sync/internal/entity"

	"github.com/google/uuid"
)

type AvatarResponse struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

func NewAvatarResponse(a entity.Avatar) AvatarResponse {
	return AvatarResponse{Type: a.Type, Text: a.Text, URL: a.URL}
}

type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateWorkspaceRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required"`
}

type WorkspaceResponse struct {
	Id        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	OwnerId   uuid.UUID      `json:"owner_id"`
	Avatar    AvatarResponse `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`
}

func NewWorkspaceResponse(w *entity.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		Id:        w.Id,
		Name:      w.Name,
		OwnerId:   w.OwnerId,
		Avatar:    NewAvatarResponse(w.Avatar),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func NewWorkspaceResponses(list []*entity.Workspace) []WorkspaceResponse {
	out := make([]WorkspaceResponse, len(list))
	for i, w := range list {
		out[i] = NewWorkspaceResponse(w)
	}
	return out
}
