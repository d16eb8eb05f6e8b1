package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	SenderId  uuid.UUID
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
}
