package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/chat"
	"jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/infrastructure/agentclient"
	"jan-server/services/agent-gateway/internal/infrastructure/metrics"
	"jan-server/services/agent-gateway/internal/infrastructure/observability"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/requests"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/responses"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
	"jan-server/services/agent-gateway/internal/utils/threadid"
)

// relayBufferSize bounds how much of the agent stream is held in memory; one
// chunk is in flight at a time.
const relayBufferSize = 32 * 1024

// ChatHandler exposes HTTP entrypoints for message recording and the
// streaming relay to the agent runtime.
type ChatHandler struct {
	service   chat.Service
	threadSvc thread.Service
	agent     *agentclient.Client
	log       zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, threadSvc thread.Service, agent *agentclient.Client, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service:   service,
		threadSvc: threadSvc,
		agent:     agent,
		log:       log.With().Str("handler", "chat").Logger(),
	}
}

// RecordMessages handles POST /v1/threads/:thread_id/messages
func (h *ChatHandler) RecordMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	var req requests.RecordMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "chat-record-bind-001")
		return
	}

	inputs := make([]chat.MessageInput, 0, len(req.Messages))
	for _, entry := range req.Messages {
		inputs = append(inputs, chat.MessageInput{
			Role:    chat.Role(entry.Role),
			Content: entry.Content,
			RunID:   entry.RunID,
		})
	}

	messages, err := h.service.RecordMessages(c.Request.Context(), userID, tid, inputs)
	if err != nil {
		responses.HandleError(c, err, "failed to record messages")
		return
	}

	for _, m := range messages {
		metrics.RecordMessages(string(m.Role), 1)
	}

	c.JSON(http.StatusCreated, responses.MessageListResponse{
		Data: responses.MapMessagesToResponse(messages),
	})
}

// ListMessages handles GET /v1/threads/:thread_id/messages. With
// include_artifacts=true each message carries the artifacts of its run.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	if c.Query("include_artifacts") == "true" {
		entries, err := h.service.ListMessagesWithArtifacts(c.Request.Context(), userID, tid)
		if err != nil {
			responses.HandleError(c, err, "failed to list messages")
			return
		}
		c.JSON(http.StatusOK, responses.HistoryResponse{
			Data: responses.MapHistoryToResponse(entries),
		})
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), userID, tid)
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, responses.MessageListResponse{
		Data: responses.MapMessagesToResponse(messages),
	})
}

// StreamChat handles GET /v1/chat/stream?thread_id=&q=. The agent's event
// stream is relayed byte for byte; the gateway never buffers or reframes it.
func (h *ChatHandler) StreamChat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tid := c.Query("thread_id")
	if !threadid.IsValid(tid) {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "thread_id is not a valid identifier", "chat-stream-thread-001")
		return
	}
	query := c.Query("q")
	if query == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "q must not be empty", "chat-stream-query-001")
		return
	}

	// Check the thread before dialing the agent so a bad thread id never
	// costs an upstream connection. Deleted threads surface as not found;
	// archived threads may still stream.
	if _, err := h.threadSvc.Get(c.Request.Context(), userID, tid, false); err != nil {
		responses.HandleError(c, err, "failed to open chat stream")
		return
	}

	ctx, span := observability.StartStreamSpan(c.Request.Context(), tid, userID)
	defer span.End()

	start := time.Now()
	upstream, err := h.agent.Stream(ctx, agentclient.StreamRequest{
		Message:  query,
		UserID:   userID,
		ThreadID: tid,
	})
	if err != nil {
		observability.RecordError(span, err)
		metrics.RecordStream("error", time.Since(start).Seconds(), 0)
		responses.HandleError(c, err, "failed to open chat stream")
		return
	}
	defer upstream.Body.Close()

	c.Header("Content-Type", upstream.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()

	clientGone := c.Request.Context().Done()
	buf := make([]byte, relayBufferSize)
	var relayed int64

	for {
		select {
		case <-clientGone:
			metrics.RecordStream("client_closed", time.Since(start).Seconds(), relayed)
			h.log.Debug().Str("thread_id", tid).Msg("client closed chat stream")
			return
		default:
		}

		n, readErr := upstream.Body.Read(buf)
		if n > 0 {
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				metrics.RecordStream("client_closed", time.Since(start).Seconds(), relayed)
				h.log.Debug().Err(writeErr).Str("thread_id", tid).Msg("client write failed during relay")
				return
			}
			c.Writer.Flush()
			relayed += int64(n)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				metrics.RecordStream("ok", time.Since(start).Seconds(), relayed)
				return
			}
			// A disconnecting client cancels the request context, which
			// aborts the blocked upstream read; that is not an agent failure.
			if c.Request.Context().Err() != nil {
				metrics.RecordStream("client_closed", time.Since(start).Seconds(), relayed)
				h.log.Debug().Str("thread_id", tid).Msg("client closed chat stream")
				return
			}
			observability.RecordError(span, readErr)
			metrics.RecordStream("error", time.Since(start).Seconds(), relayed)
			h.log.Warn().Err(readErr).Str("thread_id", tid).Msg("agent stream ended with error")
			return
		}
	}
}
