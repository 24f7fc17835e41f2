package responses

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/thread"
)

// ThreadResponse is the thread payload returned to clients.
type ThreadResponse struct {
	ThreadID  string         `json:"thread_id"`
	Status    string         `json:"status"`
	Title     *string        `json:"title,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ThreadListResponse wraps a paginated thread listing.
type ThreadListResponse struct {
	Data   []ThreadResponse `json:"data"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// MapThreadToResponse maps the domain thread to DTO.
func MapThreadToResponse(t *thread.Thread) ThreadResponse {
	return ThreadResponse{
		ThreadID:  t.ThreadID,
		Status:    string(t.Status),
		Title:     t.Title,
		Metadata:  t.Metadata,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// MapThreadsToResponse maps a slice of domain threads to DTOs.
func MapThreadsToResponse(threads []*thread.Thread) []ThreadResponse {
	out := make([]ThreadResponse, 0, len(threads))
	for _, t := range threads {
		out = append(out, MapThreadToResponse(t))
	}
	return out
}
