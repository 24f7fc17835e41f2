// Package chat models conversation turns and their run correlation.
package chat

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/artifact"
)

// Role indicates who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one immutable turn in a thread. RunID, when set, groups the
// messages and artifacts produced by a single agent invocation.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	RunID     *string   `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageInput is a message as submitted by a client or the agent.
type MessageInput struct {
	Role    Role
	Content string
	RunID   *string
}

// MessageWithArtifacts pairs a message with the artifacts of its run.
type MessageWithArtifacts struct {
	Message   Message              `json:"message"`
	Artifacts []*artifact.Artifact `json:"artifacts"`
}
