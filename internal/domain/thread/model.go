// Package thread holds the conversation thread domain model and lifecycle rules.
package thread

import (
	"time"
)

// Status tracks thread visibility and mutability.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived || s == StatusDeleted
}

// Thread is a conversation container owned by a single user.
type Thread struct {
	ThreadID  string         `json:"thread_id"`
	UserID    string         `json:"user_id"`
	Status    Status         `json:"status"`
	Title     *string        `json:"title,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Title    *string
	Metadata *map[string]any
}

// IsEmpty reports whether the patch supplies no fields.
func (p UpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Metadata == nil
}

// Filter narrows thread listings.
type Filter struct {
	Status *Status
}

// Pagination bounds list queries.
type Pagination struct {
	Offset int
	Limit  int
}

// NewThread builds an active thread with fresh timestamps.
func NewThread(threadID, userID string, title *string, metadata map[string]any) *Thread {
	now := time.Now().UTC()
	return &Thread{
		ThreadID:  threadID,
		UserID:    userID,
		Status:    StatusActive,
		Title:     title,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
