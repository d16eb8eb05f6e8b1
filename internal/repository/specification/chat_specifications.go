package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

// MessagesVisibleToUser restricts chat messages to chats the user
// participates in or messages they sent.
type MessagesVisibleToUser struct {
	UserID uuid.UUID
}

func (s MessagesVisibleToUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"sender_id = ? OR chat_id IN (SELECT chat_id FROM chat_members WHERE user_id = ?)",
		s.UserID, s.UserID,
	)
}

// VisibleToUser restricts chats to those the user is a member of, owns, or
// that are public.
type VisibleToUser struct {
	UserID uuid.UUID
}

func (s VisibleToUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"owner_id = ? OR kind = 'public' OR id IN (SELECT chat_id FROM chat_members WHERE user_id = ?)",
		s.UserID, s.UserID,
	)
}
