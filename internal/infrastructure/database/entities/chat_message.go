package entities

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/chat"
)

// ChatMessage represents the database schema for conversation turns. Rows are
// immutable once written.
type ChatMessage struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ThreadID  string    `gorm:"type:char(26);index:idx_chat_message_thread_created;not null"`
	UserID    string    `gorm:"type:varchar(64);index;not null"`
	Role      string    `gorm:"type:varchar(20);not null"`
	Content   string    `gorm:"type:text;not null"`
	RunID     *string   `gorm:"type:varchar(64);index:idx_chat_message_run"`
	CreatedAt time.Time `gorm:"not null;index:idx_chat_message_thread_created"`
}

// TableName specifies the table name for ChatMessage.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// EtoD converts database entity to domain model
func (m *ChatMessage) EtoD() chat.Message {
	return chat.Message{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		UserID:    m.UserID,
		Role:      chat.Role(m.Role),
		Content:   m.Content,
		RunID:     m.RunID,
		CreatedAt: m.CreatedAt,
	}
}

// NewSchemaChatMessage creates a database entity from domain model
func NewSchemaChatMessage(m chat.Message) *ChatMessage {
	return &ChatMessage{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		Content:   m.Content,
		RunID:     m.RunID,
		CreatedAt: m.CreatedAt,
	}
}
