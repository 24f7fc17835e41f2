package requests

// CreateThreadRequest is the payload for POST /v1/threads.
type CreateThreadRequest struct {
	Title    *string        `json:"title"`
	Metadata map[string]any `json:"metadata"`
}

// UpdateThreadRequest is the payload for PATCH /v1/threads/:thread_id.
// Absent fields are left unchanged.
type UpdateThreadRequest struct {
	Title    *string         `json:"title"`
	Metadata *map[string]any `json:"metadata"`
}
