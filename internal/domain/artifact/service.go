package artifact

import (
	"context"

	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/thread"
)

// Service defines artifact metadata operations.
type Service interface {
	CreateBulk(ctx context.Context, userID, threadID string, inputs []Input) ([]*Artifact, error)
	List(ctx context.Context, userID, threadID string, filter Filter) ([]*Artifact, error)
	Get(ctx context.Context, userID, artifactID string) (*Artifact, error)
	Delete(ctx context.Context, userID, artifactID string) error
}

// DefaultService implements Service on top of a Repository.
type DefaultService struct {
	repo      Repository
	threadSvc thread.Service
	log       zerolog.Logger
}

// NewService creates the artifact service.
func NewService(repo Repository, threadSvc thread.Service, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:      repo,
		threadSvc: threadSvc,
		log:       log.With().Str("domain", "artifact").Logger(),
	}
}

// CreateBulk registers artifacts produced by a run. An empty batch is a
// no-op. The owning thread must exist and not be deleted.
func (s *DefaultService) CreateBulk(ctx context.Context, userID, threadID string, inputs []Input) ([]*Artifact, error) {
	if len(inputs) == 0 {
		return []*Artifact{}, nil
	}
	if _, err := s.threadSvc.Get(ctx, userID, threadID, false); err != nil {
		return nil, err
	}

	created, err := s.repo.InsertBatch(ctx, userID, threadID, inputs)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("thread_id", threadID).
		Int("count", len(created)).
		Msg("artifacts registered")
	return created, nil
}

// List returns the thread's artifacts, newest first, optionally narrowed to a
// single run.
func (s *DefaultService) List(ctx context.Context, userID, threadID string, filter Filter) ([]*Artifact, error) {
	if _, err := s.threadSvc.Get(ctx, userID, threadID, false); err != nil {
		return nil, err
	}
	return s.repo.FindByThread(ctx, userID, threadID, filter)
}

// Get returns a single artifact owned by userID.
func (s *DefaultService) Get(ctx context.Context, userID, artifactID string) (*Artifact, error) {
	return s.repo.FindByID(ctx, userID, artifactID)
}

// Delete removes the artifact record. The bytes on disk are left in place.
func (s *DefaultService) Delete(ctx context.Context, userID, artifactID string) error {
	if _, err := s.repo.FindByID(ctx, userID, artifactID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, artifactID)
}
