package models

import "time"

// JournalModel 数据库日记模型。(owner_id, date) 上的唯一索引保证
// 每个用户每天至多一条日记，重复生成走 upsert 覆盖。
type JournalModel struct {
	ID          string `gorm:"primaryKey;size:64"`
	OwnerID     string `gorm:"size:64;not null;uniqueIndex:idx_journals_owner_date"`
	Date        string `gorm:"size:10;not null;uniqueIndex:idx_journals_owner_date"` // YYYY-MM-DD
	Entry       string `gorm:"type:text;not null"`
	Mood        string `gorm:"size:255;not null"`
	AIGenerated bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定表名
func (JournalModel) TableName() string {
	return "journals"
}
