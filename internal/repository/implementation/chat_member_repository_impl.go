package implementation

import (
	"context"

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

type ChatMemberRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.ChatMapper
	publisher realtime.Publisher
	log       logger.ILogger
}

func NewChatMemberRepository(db *gorm.DB, publisher realtime.Publisher, log logger.ILogger) contract.ChatMemberRepository {
	return &ChatMemberRepositoryImpl{
		db:        db,
		mapper:    mapper.NewChatMapper(),
		publisher: publisher,
		log:       log,
	}
}

func (r *ChatMemberRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMemberRepositoryImpl) Add(ctx context.Context, member *entity.ChatMember) error {
	m := r.mapper.MemberToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.MemberToEntity(m)

	publishRowChange(ctx, r.publisher, r.log, model.ChatMember{}.TableName(), realtime.OpInsert, m.Id, m)
	return nil
}

func (r *ChatMemberRepositoryImpl) Remove(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.ChatMember{}, id).Error; err != nil {
		return err
	}

	publishRowDelete(ctx, r.publisher, r.log, model.ChatMember{}.TableName(), id)
	return nil
}

func (r *ChatMemberRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMember, error) {
	var models []*model.ChatMember
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatMember, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MemberToEntity(m)
	}
	return entities, nil
}
