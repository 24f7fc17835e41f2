package requests

// RecordMessagesRequest is the payload for POST /v1/threads/:thread_id/messages.
type RecordMessagesRequest struct {
	Messages []MessageEntry `json:"messages" binding:"required"`
}

// MessageEntry is one message in a record batch.
type MessageEntry struct {
	Role    string  `json:"role" binding:"required"`
	Content string  `json:"content" binding:"required"`
	RunID   *string `json:"run_id"`
}
