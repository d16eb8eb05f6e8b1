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

type ChatRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.ChatMapper
	publisher realtime.Publisher
	log       logger.ILogger
}

func NewChatRepository(db *gorm.DB, publisher realtime.Publisher, log logger.ILogger) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:        db,
		mapper:    mapper.NewChatMapper(),
		publisher: publisher,
		log:       log,
	}
}

func (r *ChatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chat = *r.mapper.ToEntity(m)

	publishRowChange(ctx, r.publisher, r.log, model.Chat{}.TableName(), realtime.OpInsert, m.Id, m)
	return nil
}

func (r *ChatRepositoryImpl) Update(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ToModel(chat)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*chat = *r.mapper.ToEntity(m)

	publishRowChange(ctx, r.publisher, r.log, model.Chat{}.TableName(), realtime.OpUpdate, m.Id, m)
	return nil
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.Chat{}, id).Error; err != nil {
		return err
	}

	publishRowDelete(ctx, r.publisher, r.log, model.Chat{}.TableName(), id)
	return nil
}

func (r *ChatRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	var m model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Chat, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ChatRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Chat{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
