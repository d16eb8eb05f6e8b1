package entity

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	Id        uuid.UUID
	Name      string
	Avatar    Avatar
	CreatedAt time.Time
}

type ChatMember struct {
	Id       uuid.UUID
	ChatId   uuid.UUID
	UserId   uuid.UUID
	JoinedAt time.Time
}
