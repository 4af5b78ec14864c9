package repository

import (
	"context"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
)

// JournalRepository 日记仓储接口
type JournalRepository interface {
	// Upsert 保存日记条目。同一 (ownerID, date) 已存在时覆盖旧条目，
	// 返回持久化后的条目。
	Upsert(ctx context.Context, journal *entity.JournalEntry) (*entity.JournalEntry, error)

	// FindByOwner 返回用户的全部日记（按日期降序）
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.JournalEntry, error)

	// FindByOwnerAndDate 按日期键查找单条日记
	FindByOwnerAndDate(ctx context.Context, ownerID, date string) (*entity.JournalEntry, error)

	// Delete 删除用户自己的日记，不存在时返回 NotFound
	Delete(ctx context.Context, ownerID, id string) error
}
