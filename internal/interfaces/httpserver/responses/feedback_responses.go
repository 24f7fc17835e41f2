package responses

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/feedback"
)

// FeedbackResponse is the run rating payload returned to clients.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	RunID     string    `json:"run_id"`
	Rating    string    `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackListResponse wraps a feedback listing.
type FeedbackListResponse struct {
	Data []FeedbackResponse `json:"data"`
}

// MapFeedbackToResponse maps the domain feedback to DTO.
func MapFeedbackToResponse(f *feedback.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID,
		ThreadID:  f.ThreadID,
		RunID:     f.RunID,
		Rating:    string(f.Rating),
		CreatedAt: f.CreatedAt,
	}
}

// MapFeedbackListToResponse maps a slice of domain feedback to DTOs.
func MapFeedbackListToResponse(items []*feedback.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(items))
	for _, f := range items {
		out = append(out, MapFeedbackToResponse(f))
	}
	return out
}
