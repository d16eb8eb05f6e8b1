package mapper

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-chat-sync/internal/entity"

	"github.com/google/uuid"
)

func TestWorkspaceMapperRoundTripKeepsAvatar(t *testing.T) {
	m := NewWorkspaceMapper()
	updated := time.Now().Truncate(time.Second)

	in := &entity.Workspace{
		Id:        uuid.New(),
		Name:      "Research",
		OwnerId:   uuid.New(),
		Avatar:    entity.Avatar{Type: "image", URL: "https://cdn.example.com/w.png"},
		CreatedAt: time.Now().Truncate(time.Second),
		UpdatedAt: &updated,
	}

	got := m.ToEntity(m.ToModel(in))
	if got.Avatar != in.Avatar {
		t.Errorf("Avatar = %+v, want %+v", got.Avatar, in.Avatar)
	}
	if got.Name != in.Name || got.OwnerId != in.OwnerId {
		t.Error("identity fields changed across round trip")
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(updated) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, updated)
	}
}

func TestWorkspaceDecodeRowRejectsInvalid(t *testing.T) {
	m := NewWorkspaceMapper()

	_, err := m.DecodeRow(json.RawMessage(`{"name":"no id or timestamp"}`))
	if !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("error = %v, want ErrInvalidRow", err)
	}
}

func TestMessageMapperDecodeRow(t *testing.T) {
	m := NewMessageMapper()
	id := uuid.New()
	chatId := uuid.New()

	raw := `{"id":"` + id.String() + `","chat_id":"` + chatId.String() + `","sender_id":"` + uuid.New().String() + `","content":"hello","created_at":"2026-08-01T10:00:00Z"}`
	got, err := m.DecodeRow(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "hello" || got.ChatId != chatId {
		t.Errorf("decoded = %+v", got)
	}

	if _, err := m.DecodeRow(json.RawMessage(`{"content":"no id"}`)); !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("error = %v, want ErrInvalidRow", err)
	}
}

func TestDialogMapperDecodeRowKeepsModelSettings(t *testing.T) {
	m := NewDialogMapper()
	id := uuid.New()

	raw := `{"id":"` + id.String() + `","workspace_id":"` + uuid.New().String() + `","owner_id":"` + uuid.New().String() + `","name":"assistant","model_settings":{"temperature":0.4},"created_at":"2026-08-01T10:00:00Z"}`
	got, err := m.DecodeRow(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ModelSettings["temperature"] != 0.4 {
		t.Errorf("ModelSettings = %v", got.ModelSettings)
	}
}
