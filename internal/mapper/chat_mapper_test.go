package mapper

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-chat-sync/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestChatMapperToEntityDefaults(t *testing.T) {
	m := NewChatMapper()

	chat := &model.Chat{
		Id:        uuid.New(),
		Name:      "team sync",
		Kind:      model.ChatKindGroup,
		OwnerId:   uuid.New(),
		CreatedAt: time.Now(),
	}

	got := m.ToEntity(chat)
	if got.DisplayName != "team sync" {
		t.Errorf("DisplayName = %q, want stored name", got.DisplayName)
	}
	if got.Avatar.Type != "text" || got.Avatar.Text != "t" {
		t.Errorf("Avatar = %+v, want text avatar with first rune", got.Avatar)
	}
	if got.Metadata == nil {
		t.Error("Metadata = nil, want empty map")
	}
	if got.UpdatedAt != nil {
		t.Error("UpdatedAt should be nil for zero column")
	}
}

func TestChatMapperDecodeRow(t *testing.T) {
	m := NewChatMapper()
	validId := uuid.New()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid row",
			raw:  `{"id":"` + validId.String() + `","name":"ok","kind":"private","owner_id":"` + uuid.New().String() + `","created_at":"2026-08-01T10:00:00Z"}`,
		},
		{
			name:    "missing id",
			raw:     `{"name":"no id","kind":"private","created_at":"2026-08-01T10:00:00Z"}`,
			wantErr: true,
		},
		{
			name:    "missing created_at",
			raw:     `{"id":"` + validId.String() + `","name":"no ts","kind":"private"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     `{{{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.DecodeRow(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidRow) {
					t.Errorf("error = %v, want ErrInvalidRow", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Id != validId {
				t.Errorf("Id = %s, want %s", got.Id, validId)
			}
		})
	}
}

func TestDecodeAvatar(t *testing.T) {
	tests := []struct {
		name     string
		raw      datatypes.JSON
		fallback string
		wantType string
		wantText string
		wantURL  string
	}{
		{
			name:     "image avatar passes through",
			raw:      datatypes.JSON(`{"type":"image","url":"https://cdn.example.com/a.png"}`),
			fallback: "Alice",
			wantType: "image",
			wantURL:  "https://cdn.example.com/a.png",
		},
		{
			name:     "empty column falls back to first rune",
			raw:      nil,
			fallback: "Alice",
			wantType: "text",
			wantText: "A",
		},
		{
			name:     "malformed json falls back",
			raw:      datatypes.JSON(`{"type":`),
			fallback: "Bob",
			wantType: "text",
			wantText: "B",
		},
		{
			name:     "multibyte first rune survives",
			raw:      nil,
			fallback: "Ümit",
			wantType: "text",
			wantText: "Ü",
		},
		{
			name:     "empty name yields empty text avatar",
			raw:      nil,
			fallback: "",
			wantType: "text",
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeAvatar(tt.raw, tt.fallback)
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
		})
	}
}

func TestDecodeMetadata(t *testing.T) {
	if got := decodeMetadata(nil); got == nil || len(got) != 0 {
		t.Errorf("nil column: got %v, want empty map", got)
	}
	if got := decodeMetadata(datatypes.JSON(`not json`)); got == nil || len(got) != 0 {
		t.Errorf("malformed column: got %v, want empty map", got)
	}
	got := decodeMetadata(datatypes.JSON(`{"pinned":true}`))
	if got["pinned"] != true {
		t.Errorf("valid column: got %v", got)
	}
}
