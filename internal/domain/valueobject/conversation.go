package valueobject

// Role 会话轮次角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DisplayName 返回角色在转写文本中的名称（User / Assistant）
func (r Role) DisplayName() string {
	if r == RoleAssistant {
		return "Assistant"
	}
	return "User"
}

// ConversationTurn 会话轮次值对象（不可变）。
// 仅作为生成管线的输入形态存在，不单独持久化。
type ConversationTurn struct {
	role    Role
	content string
}

// NewConversationTurn 创建会话轮次
func NewConversationTurn(role Role, content string) ConversationTurn {
	if role != RoleAssistant {
		role = RoleUser
	}
	return ConversationTurn{role: role, content: content}
}

// Role 返回轮次角色
func (t ConversationTurn) Role() Role {
	return t.role
}

// Content 返回轮次内容
func (t ConversationTurn) Content() string {
	return t.content
}
