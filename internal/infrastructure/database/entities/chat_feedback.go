package entities

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/feedback"
)

// ChatFeedback represents the database schema for run ratings. The unique
// index on (run_id, user_id) keeps a user at one rating per run.
type ChatFeedback struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ThreadID  string    `gorm:"type:char(26);index;not null"`
	RunID     string    `gorm:"type:varchar(64);index;uniqueIndex:ux_chat_feedback_run_user;not null"`
	UserID    string    `gorm:"type:varchar(64);index;uniqueIndex:ux_chat_feedback_run_user;not null"`
	Rating    string    `gorm:"type:varchar(8);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for ChatFeedback.
func (ChatFeedback) TableName() string {
	return "chat_feedback"
}

// EtoD converts database entity to domain model
func (f *ChatFeedback) EtoD() *feedback.Feedback {
	return &feedback.Feedback{
		ID:        f.ID,
		ThreadID:  f.ThreadID,
		RunID:     f.RunID,
		UserID:    f.UserID,
		Rating:    feedback.Rating(f.Rating),
		CreatedAt: f.CreatedAt,
	}
}

// NewSchemaChatFeedback creates a database entity from domain model
func NewSchemaChatFeedback(f *feedback.Feedback) *ChatFeedback {
	return &ChatFeedback{
		ID:        f.ID,
		ThreadID:  f.ThreadID,
		RunID:     f.RunID,
		UserID:    f.UserID,
		Rating:    string(f.Rating),
		CreatedAt: f.CreatedAt,
	}
}
