package entity

import (
	"strings"
	"time"
)

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageTTL 消息保留期限，超过后由清理任务硬删除
const MessageTTL = 24 * time.Hour

// Message 聊天消息实体。每条消息恰好属于一个用户和一个会话。
type Message struct {
	id             string
	ownerID        string
	conversationID string
	sender         Sender
	text           string
	timestamp      time.Time
}

// NewMessage 创建新消息（工厂方法）
func NewMessage(id, ownerID, conversationID string, sender Sender, text string) (*Message, error) {
	if id == "" {
		return nil, ErrInvalidMessageID
	}
	if ownerID == "" {
		return nil, ErrInvalidOwnerID
	}
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}
	if sender != SenderUser && sender != SenderBot {
		return nil, ErrInvalidSender
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessageText
	}

	return &Message{
		id:             id,
		ownerID:        ownerID,
		conversationID: conversationID,
		sender:         sender,
		text:           text,
		timestamp:      time.Now().UTC(),
	}, nil
}

// ReconstructMessage 重建消息（用于从持久化层恢复）
func ReconstructMessage(id, ownerID, conversationID string, sender Sender, text string, timestamp time.Time) *Message {
	return &Message{
		id:             id,
		ownerID:        ownerID,
		conversationID: conversationID,
		sender:         sender,
		text:           text,
		timestamp:      timestamp,
	}
}

// ID 返回消息ID
func (m *Message) ID() string {
	return m.id
}

// OwnerID 返回所属用户ID
func (m *Message) OwnerID() string {
	return m.ownerID
}

// ConversationID 返回会话ID
func (m *Message) ConversationID() string {
	return m.conversationID
}

// Sender 返回发送方
func (m *Message) Sender() Sender {
	return m.sender
}

// Text 返回消息文本
func (m *Message) Text() string {
	return m.text
}

// Timestamp 返回时间戳
func (m *Message) Timestamp() time.Time {
	return m.timestamp
}

// IsFromUser 判断是否来自用户
func (m *Message) IsFromUser() bool {
	return m.sender == SenderUser
}

// Expired 判断消息是否已超过保留期限
func (m *Message) Expired(now time.Time) bool {
	return now.Sub(m.timestamp) > MessageTTL
}
