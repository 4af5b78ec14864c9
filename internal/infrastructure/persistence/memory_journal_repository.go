package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

// MemoryJournalRepository 内存实现的日记仓储（用于开发/测试）
type MemoryJournalRepository struct {
	mu sync.RWMutex
	// (ownerID, date) → 条目，与数据库唯一索引同构
	byOwnerDate map[string]*entity.JournalEntry
}

// NewMemoryJournalRepository 创建内存日记仓储
func NewMemoryJournalRepository() repository.JournalRepository {
	return &MemoryJournalRepository{
		byOwnerDate: make(map[string]*entity.JournalEntry),
	}
}

func journalKey(ownerID, date string) string {
	return ownerID + "|" + date
}

// Upsert 保存日记条目，同键覆盖
func (r *MemoryJournalRepository) Upsert(ctx context.Context, journal *entity.JournalEntry) (*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := journalKey(journal.OwnerID(), journal.Date())
	if existing, ok := r.byOwnerDate[key]; ok {
		// 覆盖时保留原条目 ID，与数据库 upsert 行为一致
		journal = entity.ReconstructJournalEntry(
			existing.ID(),
			journal.OwnerID(),
			journal.Date(),
			journal.Entry(),
			journal.Mood(),
			journal.AIGenerated(),
			existing.CreatedAt(),
		)
	}

	r.byOwnerDate[key] = journal
	return journal, nil
}

// FindByOwner 返回用户的全部日记（按日期降序）
func (r *MemoryJournalRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	journals := make([]*entity.JournalEntry, 0)
	for _, j := range r.byOwnerDate {
		if j.OwnerID() == ownerID {
			journals = append(journals, j)
		}
	}
	sort.Slice(journals, func(i, j int) bool {
		return journals[i].Date() > journals[j].Date()
	})
	return journals, nil
}

// FindByOwnerAndDate 按日期键查找单条日记
func (r *MemoryJournalRepository) FindByOwnerAndDate(ctx context.Context, ownerID, date string) (*entity.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	journal, ok := r.byOwnerDate[journalKey(ownerID, date)]
	if !ok {
		return nil, domainErrors.NewNotFoundError("journal entry not found")
	}
	return journal, nil
}

// Delete 删除用户自己的日记
func (r *MemoryJournalRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, j := range r.byOwnerDate {
		if j.OwnerID() == ownerID && j.ID() == id {
			delete(r.byOwnerDate, key)
			return nil
		}
	}
	return domainErrors.NewNotFoundError("journal entry not found")
}
