package implementation

import (
	"context"
	"errors"

	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/mapper"
	"ai-chat-sync/internal/model"
	"ai-chat-sync/internal/pkg/logger"
	"ai-chat-sync/internal/realtime"
	"ai-chat-sync/internal/repository/contract"
	"ai-chat-sync/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DialogRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.DialogMapper
	publisher realtime.Publisher
	log       logger.ILogger
}

func NewDialogRepository(db *gorm.DB, publisher realtime.Publisher, log logger.ILogger) contract.DialogRepository {
	return &DialogRepositoryImpl{
		db:        db,
		mapper:    mapper.NewDialogMapper(),
		publisher: publisher,
		log:       log,
	}
}

func (r *DialogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DialogRepositoryImpl) Create(ctx context.Context, dialog *entity.Dialog) error {
	m := r.mapper.ToModel(dialog)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*dialog = *r.mapper.ToEntity(m)

	publishRowChange(ctx, r.publisher, r.log, model.Dialog{}.TableName(), realtime.OpInsert, m.Id, m)
	return nil
}

func (r *DialogRepositoryImpl) Update(ctx context.Context, dialog *entity.Dialog) error {
	m := r.mapper.ToModel(dialog)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*dialog = *r.mapper.ToEntity(m)

	publishRowChange(ctx, r.publisher, r.log, model.Dialog{}.TableName(), realtime.OpUpdate, m.Id, m)
	return nil
}

func (r *DialogRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.Dialog{}, id).Error; err != nil {
		return err
	}

	publishRowDelete(ctx, r.publisher, r.log, model.Dialog{}.TableName(), id)
	return nil
}

func (r *DialogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dialog, error) {
	var m model.Dialog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DialogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dialog, error) {
	var models []*model.Dialog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Dialog, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DialogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Dialog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
