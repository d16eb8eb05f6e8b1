package model

import (
	"time"

	"ai-chat-sync/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chat kinds as stored in the chats.kind column. Canonical values live on
// the entity package so mapped views compare against the same strings.
const (
	ChatKindPrivate   = entity.ChatKindPrivate
	ChatKindGroup     = entity.ChatKindGroup
	ChatKindWorkspace = entity.ChatKindWorkspace
	ChatKindPublic    = entity.ChatKindPublic
)

type Chat struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkspaceId *uuid.UUID     `gorm:"type:uuid;index" json:"workspace_id"`
	Name        string         `gorm:"type:text" json:"name"`
	Kind        string         `gorm:"type:varchar(20);not null;default:'private'" json:"kind"`
	OwnerId     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Chat) TableName() string {
	return "chats"
}
