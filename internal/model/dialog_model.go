package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dialog is an assistant conversation inside a workspace. ModelSettings keeps
// the per-dialog generation parameters the UI edits without a save button.
type Dialog struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkspaceId   uuid.UUID      `gorm:"type:uuid;not null;index" json:"workspace_id"`
	AssistantId   *uuid.UUID     `gorm:"type:uuid;index" json:"assistant_id"`
	OwnerId       uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name          string         `gorm:"type:text;not null" json:"name"`
	ModelSettings datatypes.JSON `gorm:"type:jsonb" json:"model_settings"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Dialog) TableName() string {
	return "dialogs"
}
