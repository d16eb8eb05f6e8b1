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

type ChatMessageRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.MessageMapper
	publisher realtime.Publisher
	log       logger.ILogger
}

func NewChatMessageRepository(db *gorm.DB, publisher realtime.Publisher, log logger.ILogger) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:        db,
		mapper:    mapper.NewMessageMapper(),
		publisher: publisher,
		log:       log,
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)

	publishRowChange(ctx, r.publisher, r.log, model.ChatMessage{}.TableName(), realtime.OpInsert, m.Id, m)
	return nil
}

func (r *ChatMessageRepositoryImpl) Update(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)

	publishRowChange(ctx, r.publisher, r.log, model.ChatMessage{}.TableName(), realtime.OpUpdate, m.Id, m)
	return nil
}

func (r *ChatMessageRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.ChatMessage{}, id).Error; err != nil {
		return err
	}

	publishRowDelete(ctx, r.publisher, r.log, model.ChatMessage{}.TableName(), id)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	var m model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
