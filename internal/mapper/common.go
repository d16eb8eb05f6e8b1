package mapper

import (
	"encoding/json"
	"errors"
	"time"

	"ai-chat-sync/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ErrInvalidRow marks feed payloads that fail the boundary checks. Rows
// carrying it are logged and dropped, never cached.
var ErrInvalidRow = errors.New("invalid row payload")

// decodeAvatar parses a jsonb avatar column, falling back to a text avatar
// built from the first rune of name when the column is empty or malformed.
func decodeAvatar(raw datatypes.JSON, name string) entity.Avatar {
	if len(raw) > 0 {
		var a entity.Avatar
		if err := json.Unmarshal(raw, &a); err == nil && a.Type != "" {
			return a
		}
	}
	return textAvatar(name)
}

func textAvatar(name string) entity.Avatar {
	text := ""
	for _, r := range name {
		text = string(r)
		break
	}
	return entity.Avatar{Type: "text", Text: text}
}

// decodeMetadata parses a jsonb metadata column with safe fallback to an
// empty map.
func decodeMetadata(raw datatypes.JSON) map[string]interface{} {
	out := map[string]interface{}{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}

func encodeAvatar(a entity.Avatar) datatypes.JSON {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil
	}
	return raw
}

func encodeMetadata(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return raw
}

func updatedAtPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

func requireRow(id uuid.UUID, createdAt time.Time) error {
	if id == uuid.Nil {
		return ErrInvalidRow
	}
	if createdAt.IsZero() {
		return ErrInvalidRow
	}
	return nil
}
