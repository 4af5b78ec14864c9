package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
)

// MemoryMessageRepository 内存实现的消息仓储（用于开发/测试）
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[string]*entity.Message
}

// NewMemoryMessageRepository 创建内存消息仓储
func NewMemoryMessageRepository() repository.MessageRepository {
	return &MemoryMessageRepository{
		messages: make(map[string]*entity.Message),
	}
}

// Save 保存消息
func (r *MemoryMessageRepository) Save(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[message.ID()] = message
	return nil
}

// FindByConversationID 根据会话ID查找最近的消息（按时间升序返回）
func (r *MemoryMessageRepository) FindByConversationID(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.collect(func(m *entity.Message) bool {
		return m.ConversationID() == conversationID
	})

	// 超出上限时保留最近的，而不是最早的
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

// FindByOwnerBetween 查找用户在半开时间窗口 [from, to) 内的消息（按时间升序）
func (r *MemoryMessageRepository) FindByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(m *entity.Message) bool {
		ts := m.Timestamp()
		return m.OwnerID() == ownerID && !ts.Before(from) && ts.Before(to)
	}), nil
}

// DistinctOwners 返回半开时间窗口 [from, to) 内有消息的用户ID集合
func (r *MemoryMessageRepository) DistinctOwners(ctx context.Context, from, to time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, m := range r.messages {
		ts := m.Timestamp()
		if !ts.Before(from) && ts.Before(to) {
			seen[m.OwnerID()] = true
		}
	}

	owners := make([]string, 0, len(seen))
	for owner := range seen {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners, nil
}

// DeleteOlderThan 删除早于 cutoff 的消息
func (r *MemoryMessageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, m := range r.messages {
		if m.Timestamp().Before(cutoff) {
			delete(r.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

// collect 过滤并按时间升序返回，调用方须持有读锁
func (r *MemoryMessageRepository) collect(keep func(*entity.Message) bool) []*entity.Message {
	matched := make([]*entity.Message, 0)
	for _, m := range r.messages {
		if keep(m) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp().Before(matched[j].Timestamp())
	})
	return matched
}
