package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMember struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ChatId   uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_members_chat_user,unique" json:"chat_id"`
	UserId   uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_members_chat_user,unique" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (ChatMember) TableName() string {
	return "chat_members"
}
