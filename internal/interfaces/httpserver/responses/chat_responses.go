package responses

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/chat"
)

// MessageResponse is the chat message payload returned to clients.
type MessageResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	RunID     *string   `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageListResponse wraps a plain message listing.
type MessageListResponse struct {
	Data []MessageResponse `json:"data"`
}

// MessageWithArtifactsResponse pairs a message with its run's artifacts.
type MessageWithArtifactsResponse struct {
	Message   MessageResponse    `json:"message"`
	Artifacts []ArtifactResponse `json:"artifacts"`
}

// HistoryResponse wraps the run-correlated message listing.
type HistoryResponse struct {
	Data []MessageWithArtifactsResponse `json:"data"`
}

// MapMessageToResponse maps the domain message to DTO.
func MapMessageToResponse(m chat.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Role:      string(m.Role),
		Content:   m.Content,
		RunID:     m.RunID,
		CreatedAt: m.CreatedAt,
	}
}

// MapMessagesToResponse maps a slice of domain messages to DTOs.
func MapMessagesToResponse(messages []chat.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MapMessageToResponse(m))
	}
	return out
}

// MapHistoryToResponse maps run-correlated messages to DTOs.
func MapHistoryToResponse(entries []chat.MessageWithArtifacts) []MessageWithArtifactsResponse {
	out := make([]MessageWithArtifactsResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, MessageWithArtifactsResponse{
			Message:   MapMessageToResponse(entry.Message),
			Artifacts: MapArtifactsToResponse(entry.Artifacts),
		})
	}
	return out
}
