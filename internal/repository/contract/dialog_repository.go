package contract

import (
	"context"

	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/repository/specification"

	"github.com/google/uuid"
)

type DialogRepository interface {
	Create(ctx context.Context, dialog *entity.Dialog) error
	Update(ctx context.Context, dialog *entity.Dialog) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dialog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dialog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
