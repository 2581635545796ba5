package models

import "time"

// Speaker 标识一条消息的发言方。
type Speaker string

const (
	SpeakerUser      Speaker = "user"      // 用户发言
	SpeakerAssistant Speaker = "assistant" // Agent 回复
)

// ChatMessage 是对话中的一条消息。
type ChatMessage struct {
	Role      Speaker   `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ConversationRecord 是一个会话的持久化记录。
// 核心调度逻辑不依赖它；历史存储是平台的外围能力。
type ConversationRecord struct {
	ID        string        `bson:"_id" json:"id"`
	UserID    string        `bson:"user_id" json:"user_id"`
	AgentName string        `bson:"agent_name" json:"agent_name"`
	Model     string        `bson:"model" json:"model"`
	Messages  []ChatMessage `bson:"messages" json:"messages"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// UserStatus 表示用户账号的状态。
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

// User 是平台的注册用户。
type User struct {
	ID        string     `bson:"_id" json:"id"`
	Username  string     `bson:"username" json:"username"`
	Email     string     `bson:"email" json:"email"`
	Password  string     `bson:"password" json:"-"` // bcrypt 哈希，不对外序列化
	Status    UserStatus `bson:"status" json:"status"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

// ChatEventStatus 表示一次对话调用的结果。
type ChatEventStatus string

const (
	ChatEventSuccess ChatEventStatus = "success"
	ChatEventFailed  ChatEventStatus = "failed"
)

// ChatEvent 是发布到 Kafka 的对话审计事件，每次 Invoke 一条。
type ChatEvent struct {
	ConversationID string          `json:"conversation_id"`
	UserID         string          `json:"user_id"`
	Framework      string          `json:"framework"`
	AgentName      string          `json:"agent_name"`
	Model          string          `json:"model"`
	Status         ChatEventStatus `json:"status"`
	Detail         string          `json:"detail,omitempty"` // 失败时的错误类别或信息
	LatencyMS      int64           `json:"latency_ms"`
	Timestamp      time.Time       `json:"timestamp"`
}
