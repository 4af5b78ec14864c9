package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	"github.com/Avleen-2464/EchoQuill/internal/infrastructure/persistence/models"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// GormMessageRepository GORM 实现的消息仓储
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GORM 消息仓储
func NewGormMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &GormMessageRepository{
		db: db,
	}
}

// Save 保存消息
func (r *GormMessageRepository) Save(ctx context.Context, message *entity.Message) error {
	model := r.toModel(message)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domainErrors.NewInternalError("failed to save message: " + err.Error())
	}

	return nil
}

// FindByConversationID 根据会话ID查找最近的消息（按时间升序返回）
func (r *GormMessageRepository) FindByConversationID(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	var rows []models.MessageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error

	if err != nil {
		return nil, domainErrors.NewInternalError("failed to find messages: " + err.Error())
	}

	// 倒序截取到的是最近 N 条，翻转回升序
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	return r.toEntities(rows), nil
}

// FindByOwnerBetween 查找用户在半开时间窗口 [from, to) 内的消息（按时间升序）
func (r *GormMessageRepository) FindByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*entity.Message, error) {
	var rows []models.MessageModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Order("created_at asc").
		Find(&rows).Error

	if err != nil {
		return nil, domainErrors.NewInternalError("failed to find messages: " + err.Error())
	}

	return r.toEntities(rows), nil
}

// DistinctOwners 返回半开时间窗口 [from, to) 内有消息的用户ID集合
func (r *GormMessageRepository) DistinctOwners(ctx context.Context, from, to time.Time) ([]string, error) {
	var owners []string
	err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("owner_id").
		Pluck("owner_id", &owners).Error

	if err != nil {
		return nil, domainErrors.NewInternalError("failed to list message owners: " + err.Error())
	}

	return owners, nil
}

// DeleteOlderThan 删除早于 cutoff 的消息，返回删除条数
func (r *GormMessageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.MessageModel{})

	if result.Error != nil {
		return 0, domainErrors.NewInternalError("failed to delete expired messages: " + result.Error.Error())
	}

	return result.RowsAffected, nil
}

// 转换方法

func (r *GormMessageRepository) toModel(message *entity.Message) *models.MessageModel {
	return &models.MessageModel{
		ID:             message.ID(),
		OwnerID:        message.OwnerID(),
		ConversationID: message.ConversationID(),
		Sender:         string(message.Sender()),
		Text:           message.Text(),
		CreatedAt:      message.Timestamp(),
	}
}

func (r *GormMessageRepository) toEntities(rows []models.MessageModel) []*entity.Message {
	messages := make([]*entity.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, entity.ReconstructMessage(
			row.ID,
			row.OwnerID,
			row.ConversationID,
			entity.Sender(row.Sender),
			row.Text,
			row.CreatedAt,
		))
	}
	return messages
}
