package entity

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	Id        uuid.UUID
	Name      string
	OwnerId   uuid.UUID
	Avatar    Avatar
	CreatedAt time.Time
	UpdatedAt *time.Time
}
