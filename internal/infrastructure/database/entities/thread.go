package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"jan-server/services/agent-gateway/internal/domain/thread"
)

// Thread represents the database schema for conversation threads. The primary
// key is the 26-character ULID assigned at creation; timestamps are owned by
// the domain layer, not GORM.
type Thread struct {
	ThreadID  string         `gorm:"type:char(26);primaryKey"`
	UserID    string         `gorm:"type:varchar(64);index:idx_thread_user_status;not null"`
	Status    string         `gorm:"type:varchar(20);index:idx_thread_user_status;not null;default:'active'"`
	Title     *string        `gorm:"type:varchar(256)"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null;index"`
}

// TableName specifies the table name for Thread.
func (Thread) TableName() string {
	return "threads"
}

// EtoD converts database entity to domain model
func (t *Thread) EtoD() *thread.Thread {
	var metadata map[string]any
	if len(t.Metadata) > 0 {
		_ = json.Unmarshal(t.Metadata, &metadata)
	}

	return &thread.Thread{
		ThreadID:  t.ThreadID,
		UserID:    t.UserID,
		Status:    thread.Status(t.Status),
		Title:     t.Title,
		Metadata:  metadata,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewSchemaThread creates a database entity from domain model
func NewSchemaThread(t *thread.Thread) *Thread {
	var metadata datatypes.JSON
	if t.Metadata != nil {
		if raw, err := json.Marshal(t.Metadata); err == nil {
			metadata = raw
		}
	}

	return &Thread{
		ThreadID:  t.ThreadID,
		UserID:    t.UserID,
		Status:    string(t.Status),
		Title:     t.Title,
		Metadata:  metadata,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
