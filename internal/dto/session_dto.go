package dto

import "github.com/google/uuid"

type LoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type SessionResponse struct {
	UserId *uuid.UUID `json:"user_id"`
	Active bool       `json:"active"`
}
