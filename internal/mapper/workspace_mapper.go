package mapper

import (
	"encoding/json"
	"fmt"

	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/model"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

func (m *WorkspaceMapper) ToEntity(w *model.Workspace) *entity.Workspace {
	if w == nil {
		return nil
	}

	return &entity.Workspace{
		Id:        w.Id,
		Name:      w.Name,
		OwnerId:   w.OwnerId,
		Avatar:    decodeAvatar(w.Avatar, w.Name),
		CreatedAt: w.CreatedAt,
		UpdatedAt: updatedAtPtr(w.UpdatedAt),
	}
}

func (m *WorkspaceMapper) ToModel(w *entity.Workspace) *model.Workspace {
	if w == nil {
		return nil
	}

	out := &model.Workspace{
		Id:        w.Id,
		Name:      w.Name,
		OwnerId:   w.OwnerId,
		Avatar:    encodeAvatar(w.Avatar),
		CreatedAt: w.CreatedAt,
	}
	if w.UpdatedAt != nil {
		out.UpdatedAt = *w.UpdatedAt
	}
	return out
}

// DecodeRow validates and maps a change-feed payload.
func (m *WorkspaceMapper) DecodeRow(raw json.RawMessage) (*entity.Workspace, error) {
	var row model.Workspace
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode workspace row: %w: %v", ErrInvalidRow, err)
	}
	if err := requireRow(row.Id, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("decode workspace row: %w", err)
	}
	return m.ToEntity(&row), nil
}
