// Package agentclient talks to the upstream agent runtime over HTTP.
package agentclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

const errorBodyLimit = 8 * 1024

// StreamRequest is the payload forwarded to the agent's streaming endpoint.
type StreamRequest struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
}

// StreamResponse holds the agent's open event stream. The caller owns Body
// and must close it on every exit path.
type StreamResponse struct {
	Body        io.ReadCloser
	ContentType string
}

// Client relays chat requests to the agent runtime. Only the dial carries a
// timeout; an open stream may stay up as long as the agent keeps sending.
type Client struct {
	client  *resty.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient creates the agent client.
func NewClient(baseURL string, connectTimeout time.Duration, log zerolog.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
	}

	client := resty.New().
		SetTransport(transport)

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		log:     log.With().Str("component", "agent-client").Logger(),
	}
}

// Stream opens the agent's event stream for one chat turn. The response body
// is handed to the caller unparsed.
func (c *Client) Stream(ctx context.Context, request StreamRequest) (*StreamResponse, error) {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetHeader("Accept-Encoding", "identity").
		SetBody(request).
		SetDoNotParseResponse(true)

	resp, err := req.Post(c.baseURL + "/v1/chat/stream")
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"failed to reach agent runtime",
			err,
			"agent-stream-dial-001",
		)
	}

	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp)
	}
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"agent runtime returned an empty stream",
			nil,
			"agent-stream-empty-001",
		)
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "text/event-stream"
	}

	c.log.Debug().
		Str("thread_id", request.ThreadID).
		Msg("agent stream opened")

	return &StreamResponse{
		Body:        resp.RawResponse.Body,
		ContentType: contentType,
	}, nil
}

func (c *Client) errorFromResponse(ctx context.Context, resp *resty.Response) error {
	message := fmt.Sprintf("agent runtime returned status %d", resp.StatusCode())
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "agent-stream-status-001")
	}
	defer resp.RawResponse.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.RawResponse.Body, errorBodyLimit))
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "agent-stream-status-002")
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		message = fmt.Sprintf("%s: %s", message, trimmed)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "agent-stream-status-003")
}

// BaseURL returns the configured agent endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}
