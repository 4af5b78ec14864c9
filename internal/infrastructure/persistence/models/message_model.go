package models

import "time"

// MessageModel 数据库消息模型。消息到期后被硬删除，因此不使用软删除列。
type MessageModel struct {
	ID             string `gorm:"primaryKey;size:64"`
	OwnerID        string `gorm:"size:64;not null;index:idx_messages_owner_created"`
	ConversationID string `gorm:"index;size:64;not null"`
	Sender         string `gorm:"size:16;not null"` // user, bot
	Text           string `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"index:idx_messages_owner_created"`
}

// TableName 指定表名
func (MessageModel) TableName() string {
	return "messages"
}
