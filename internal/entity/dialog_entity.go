package entity

import (
	"time"

	"github.com/google/uuid"
)

type Dialog struct {
	Id            uuid.UUID
	WorkspaceId   uuid.UUID
	AssistantId   *uuid.UUID
	OwnerId       uuid.UUID
	Name          string
	Avatar        Avatar
	ModelSettings map[string]interface{}
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
