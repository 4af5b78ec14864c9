package repository

import (
	"context"
	"time"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
)

// MessageRepository 消息仓储接口
type MessageRepository interface {
	// Save 保存消息
	Save(ctx context.Context, message *entity.Message) error

	// FindByConversationID 根据会话ID查找最近 limit 条消息（按时间升序返回）
	FindByConversationID(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error)

	// FindByOwnerBetween 查找用户在半开时间窗口 [from, to) 内的消息（按时间升序）
	FindByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*entity.Message, error)

	// DistinctOwners 返回半开时间窗口 [from, to) 内有消息的用户ID集合（批量生成日记用）
	DistinctOwners(ctx context.Context, from, to time.Time) ([]string, error)

	// DeleteOlderThan 删除早于 cutoff 的消息，返回删除条数（TTL 清理用）
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
