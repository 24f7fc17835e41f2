package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/feedback"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/requests"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/responses"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// FeedbackHandler exposes HTTP entrypoints for run ratings.
type FeedbackHandler struct {
	service feedback.Service
	log     zerolog.Logger
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(service feedback.Service, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		log:     log.With().Str("handler", "feedback").Logger(),
	}
}

// Submit handles POST /v1/threads/:thread_id/feedback. Resubmitting for the
// same run replaces the earlier rating.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	var req requests.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "feedback-submit-bind-001")
		return
	}

	rating := feedback.Rating(req.Rating)
	if !rating.Valid() {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "rating must be up or down", "feedback-submit-rating-001")
		return
	}

	stored, err := h.service.Submit(c.Request.Context(), userID, tid, req.RunID, rating)
	if err != nil {
		responses.HandleError(c, err, "failed to submit feedback")
		return
	}

	c.JSON(http.StatusOK, responses.MapFeedbackToResponse(stored))
}

// Get handles GET /v1/threads/:thread_id/feedback. With a run_id query it
// returns the single rating for that run; without, all ratings in the thread.
func (h *FeedbackHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	if runID := c.Query("run_id"); runID != "" {
		stored, err := h.service.GetByRun(c.Request.Context(), userID, tid, runID)
		if err != nil {
			responses.HandleError(c, err, "failed to get feedback")
			return
		}
		c.JSON(http.StatusOK, responses.MapFeedbackToResponse(stored))
		return
	}

	items, err := h.service.ListByThread(c.Request.Context(), userID, tid)
	if err != nil {
		responses.HandleError(c, err, "failed to list feedback")
		return
	}
	c.JSON(http.StatusOK, responses.FeedbackListResponse{
		Data: responses.MapFeedbackListToResponse(items),
	})
}
