package mapper

import (
	"encoding/json"
	"fmt"

	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/model"
)

type DialogMapper struct{}

func NewDialogMapper() *DialogMapper {
	return &DialogMapper{}
}

func (m *DialogMapper) ToEntity(d *model.Dialog) *entity.Dialog {
	if d == nil {
		return nil
	}

	return &entity.Dialog{
		Id:            d.Id,
		WorkspaceId:   d.WorkspaceId,
		AssistantId:   d.AssistantId,
		OwnerId:       d.OwnerId,
		Name:          d.Name,
		Avatar:        decodeAvatar(nil, d.Name),
		ModelSettings: decodeMetadata(d.ModelSettings),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     updatedAtPtr(d.UpdatedAt),
	}
}

func (m *DialogMapper) ToModel(d *entity.Dialog) *model.Dialog {
	if d == nil {
		return nil
	}

	out := &model.Dialog{
		Id:            d.Id,
		WorkspaceId:   d.WorkspaceId,
		AssistantId:   d.AssistantId,
		OwnerId:       d.OwnerId,
		Name:          d.Name,
		ModelSettings: encodeMetadata(d.ModelSettings),
		CreatedAt:     d.CreatedAt,
	}
	if d.UpdatedAt != nil {
		out.UpdatedAt = *d.UpdatedAt
	}
	return out
}

func (m *DialogMapper) DecodeRow(raw json.RawMessage) (*entity.Dialog, error) {
	var row model.Dialog
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode dialog row: %w: %v", ErrInvalidRow, err)
	}
	if err := requireRow(row.Id, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("decode dialog row: %w", err)
	}
	return m.ToEntity(&row), nil
}
