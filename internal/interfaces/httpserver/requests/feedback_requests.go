package requests

// SubmitFeedbackRequest is the payload for POST /v1/threads/:thread_id/feedback.
type SubmitFeedbackRequest struct {
	RunID  string `json:"run_id" binding:"required"`
	Rating string `json:"rating" binding:"required"`
}
