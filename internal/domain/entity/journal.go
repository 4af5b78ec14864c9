package entity

import (
	"strings"
	"time"
)

// DateLayout 日记的日期键格式（按自然日）
const DateLayout = "2006-01-02"

// JournalEntry 日记条目实体。按 (ownerID, date) 唯一，生成后不再原地修改，
// 仅允许用户显式删除。
type JournalEntry struct {
	id          string
	ownerID     string
	date        string // YYYY-MM-DD
	entry       string
	mood        string
	aiGenerated bool
	createdAt   time.Time
}

// NewJournalEntry 创建新日记条目（工厂方法）
func NewJournalEntry(id, ownerID, date, entry, mood string, aiGenerated bool) (*JournalEntry, error) {
	if id == "" {
		return nil, ErrInvalidJournalID
	}
	if ownerID == "" {
		return nil, ErrInvalidOwnerID
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidJournalDate
	}
	if strings.TrimSpace(entry) == "" {
		return nil, ErrEmptyJournalEntry
	}
	if mood == "" {
		mood = "neutral"
	}

	return &JournalEntry{
		id:          id,
		ownerID:     ownerID,
		date:        date,
		entry:       entry,
		mood:        mood,
		aiGenerated: aiGenerated,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructJournalEntry 重建日记条目（用于从持久化层恢复）
func ReconstructJournalEntry(id, ownerID, date, entry, mood string, aiGenerated bool, createdAt time.Time) *JournalEntry {
	return &JournalEntry{
		id:          id,
		ownerID:     ownerID,
		date:        date,
		entry:       entry,
		mood:        mood,
		aiGenerated: aiGenerated,
		createdAt:   createdAt,
	}
}

// ID 返回日记ID
func (j *JournalEntry) ID() string {
	return j.id
}

// OwnerID 返回所属用户ID
func (j *JournalEntry) OwnerID() string {
	return j.ownerID
}

// Date 返回日期键（YYYY-MM-DD）
func (j *JournalEntry) Date() string {
	return j.date
}

// Entry 返回日记正文
func (j *JournalEntry) Entry() string {
	return j.entry
}

// Mood 返回情绪标签摘要
func (j *JournalEntry) Mood() string {
	return j.mood
}

// AIGenerated 判断是否由生成管线产出
func (j *JournalEntry) AIGenerated() bool {
	return j.aiGenerated
}

// CreatedAt 返回创建时间
func (j *JournalEntry) CreatedAt() time.Time {
	return j.createdAt
}
