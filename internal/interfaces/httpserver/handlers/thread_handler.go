package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/infrastructure/auth"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/requests"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/responses"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
	"jan-server/services/agent-gateway/internal/utils/threadid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ThreadHandler exposes HTTP entrypoints for thread lifecycle management.
type ThreadHandler struct {
	service thread.Service
	log     zerolog.Logger
}

// NewThreadHandler constructs the handler.
func NewThreadHandler(service thread.Service, log zerolog.Logger) *ThreadHandler {
	return &ThreadHandler{
		service: service,
		log:     log.With().Str("handler", "thread").Logger(),
	}
}

// Create handles POST /v1/threads
func (h *ThreadHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req requests.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "thread-create-bind-001")
		return
	}

	t, err := h.service.Create(c.Request.Context(), userID, req.Title, req.Metadata)
	if err != nil {
		responses.HandleError(c, err, "failed to create thread")
		return
	}

	c.JSON(http.StatusCreated, responses.MapThreadToResponse(t))
}

// Get handles GET /v1/threads/:thread_id
func (h *ThreadHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), userID, tid, false)
	if err != nil {
		responses.HandleError(c, err, "failed to get thread")
		return
	}

	c.JSON(http.StatusOK, responses.MapThreadToResponse(t))
}

// List handles GET /v1/threads
func (h *ThreadHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	filter := thread.Filter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := thread.Status(statusStr)
		if !status.Valid() {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown thread status", "thread-list-status-001")
			return
		}
		filter.Status = &status
	}

	pagination := &thread.Pagination{Limit: defaultListLimit}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= maxListLimit {
			pagination.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			pagination.Offset = offset
		}
	}

	threads, total, err := h.service.List(c.Request.Context(), userID, filter, pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list threads")
		return
	}

	c.JSON(http.StatusOK, responses.ThreadListResponse{
		Data:   responses.MapThreadsToResponse(threads),
		Total:  total,
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
}

// Update handles PATCH /v1/threads/:thread_id
func (h *ThreadHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	var req requests.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "thread-update-bind-001")
		return
	}

	t, err := h.service.Update(c.Request.Context(), userID, tid, thread.UpdateParams{
		Title:    req.Title,
		Metadata: req.Metadata,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update thread")
		return
	}

	c.JSON(http.StatusOK, responses.MapThreadToResponse(t))
}

// Archive handles POST /v1/threads/:thread_id/archive
func (h *ThreadHandler) Archive(c *gin.Context) {
	h.transition(c, h.service.Archive, "failed to archive thread")
}

// Restore handles POST /v1/threads/:thread_id/restore
func (h *ThreadHandler) Restore(c *gin.Context) {
	h.transition(c, h.service.Restore, "failed to restore thread")
}

// Delete handles DELETE /v1/threads/:thread_id
func (h *ThreadHandler) Delete(c *gin.Context) {
	h.transition(c, h.service.SoftDelete, "failed to delete thread")
}

func (h *ThreadHandler) transition(c *gin.Context, op func(ctx context.Context, userID, threadID string) (*thread.Thread, error), message string) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	t, err := op(c.Request.Context(), userID, tid)
	if err != nil {
		responses.HandleError(c, err, message)
		return
	}

	c.JSON(http.StatusOK, responses.MapThreadToResponse(t))
}

func currentUser(c *gin.Context) (string, bool) {
	userID, ok := auth.UserID(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "caller identity is missing", "handler-user-missing-001")
		return "", false
	}
	return userID, true
}

func threadIDParam(c *gin.Context) (string, bool) {
	tid := c.Param("thread_id")
	if !threadid.IsValid(tid) {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "thread id is not a valid identifier", "handler-thread-id-001")
		return "", false
	}
	return tid, true
}
