package chat

import (
	"context"

	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/artifact"
	"jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// Service defines message recording and run-correlated retrieval.
type Service interface {
	RecordMessages(ctx context.Context, userID, threadID string, inputs []MessageInput) ([]Message, error)
	ListMessages(ctx context.Context, userID, threadID string) ([]Message, error)
	ListMessagesWithArtifacts(ctx context.Context, userID, threadID string) ([]MessageWithArtifacts, error)
}

// DefaultService implements Service on top of the chat and artifact
// repositories.
type DefaultService struct {
	repo         Repository
	artifactRepo artifact.Repository
	threadSvc    thread.Service
	log          zerolog.Logger
}

// NewService creates the chat service.
func NewService(repo Repository, artifactRepo artifact.Repository, threadSvc thread.Service, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:         repo,
		artifactRepo: artifactRepo,
		threadSvc:    threadSvc,
		log:          log.With().Str("domain", "chat").Logger(),
	}
}

// RecordMessages appends a batch of turns to the thread. The batch is stored
// atomically and the thread's updated_at is stamped in the same transaction.
// An empty batch is a no-op and does not touch the thread.
func (s *DefaultService) RecordMessages(ctx context.Context, userID, threadID string, inputs []MessageInput) ([]Message, error) {
	if len(inputs) == 0 {
		return []Message{}, nil
	}

	if _, err := s.threadSvc.Get(ctx, userID, threadID, false); err != nil {
		return nil, err
	}

	for _, in := range inputs {
		if in.Role != RoleUser && in.Role != RoleAgent {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation,
				"message role must be user or agent",
				nil,
				"chat-record-role",
			)
		}
	}

	messages, err := s.repo.InsertBatch(ctx, userID, threadID, inputs)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("thread_id", threadID).
		Int("count", len(messages)).
		Msg("messages recorded")
	return messages, nil
}

// ListMessages returns the thread's messages in creation order.
func (s *DefaultService) ListMessages(ctx context.Context, userID, threadID string) ([]Message, error) {
	if _, err := s.threadSvc.Get(ctx, userID, threadID, false); err != nil {
		return nil, err
	}
	return s.repo.ListByThread(ctx, userID, threadID)
}

// ListMessagesWithArtifacts returns the thread's messages in creation order,
// each paired with the artifacts of its run. The join runs as two bounded
// queries: one for the messages, one for the artifacts of the distinct run
// ids seen, grouped in memory. Messages without a run id get an empty
// artifact list.
func (s *DefaultService) ListMessagesWithArtifacts(ctx context.Context, userID, threadID string) ([]MessageWithArtifacts, error) {
	messages, err := s.ListMessages(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	runIDs := make([]string, 0)
	for _, m := range messages {
		if m.RunID == nil {
			continue
		}
		if _, ok := seen[*m.RunID]; ok {
			continue
		}
		seen[*m.RunID] = struct{}{}
		runIDs = append(runIDs, *m.RunID)
	}

	byRun := make(map[string][]*artifact.Artifact)
	if len(runIDs) > 0 {
		artifacts, err := s.artifactRepo.FindByRunIDs(ctx, userID, threadID, runIDs)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to correlate run artifacts")
		}
		for _, a := range artifacts {
			if a.RunID == nil {
				continue
			}
			byRun[*a.RunID] = append(byRun[*a.RunID], a)
		}
	}

	result := make([]MessageWithArtifacts, 0, len(messages))
	for _, m := range messages {
		entry := MessageWithArtifacts{
			Message:   m,
			Artifacts: []*artifact.Artifact{},
		}
		if m.RunID != nil {
			if matched, ok := byRun[*m.RunID]; ok {
				entry.Artifacts = matched
			}
		}
		result = append(result, entry)
	}
	return result, nil
}
