package handlers

import (
	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/artifact"
	"jan-server/services/agent-gateway/internal/domain/chat"
	"jan-server/services/agent-gateway/internal/domain/feedback"
	"jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/infrastructure/agentclient"
	"jan-server/services/agent-gateway/internal/infrastructure/storage"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Thread   *ThreadHandler
	Chat     *ChatHandler
	Artifact *ArtifactHandler
	Feedback *FeedbackHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	threadService thread.Service,
	chatService chat.Service,
	artifactService artifact.Service,
	feedbackService feedback.Service,
	agent *agentclient.Client,
	localStorage *storage.LocalStorage,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Thread:   NewThreadHandler(threadService, log),
		Chat:     NewChatHandler(chatService, threadService, agent, log),
		Artifact: NewArtifactHandler(artifactService, localStorage, log),
		Feedback: NewFeedbackHandler(feedbackService, log),
	}
}
