package feedback

import (
	"context"

	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// Service defines run rating operations.
type Service interface {
	Submit(ctx context.Context, userID, threadID, runID string, rating Rating) (*Feedback, error)
	GetByRun(ctx context.Context, userID, threadID, runID string) (*Feedback, error)
	ListByThread(ctx context.Context, userID, threadID string) ([]*Feedback, error)
}

// DefaultService implements Service on top of a Repository.
type DefaultService struct {
	repo      Repository
	threadSvc thread.Service
	log       zerolog.Logger
}

// NewService creates the feedback service.
func NewService(repo Repository, threadSvc thread.Service, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:      repo,
		threadSvc: threadSvc,
		log:       log.With().Str("domain", "feedback").Logger(),
	}
}

// Submit records the user's rating for a run. A second submission for the
// same run replaces the earlier rating rather than adding a row. The owning
// thread must exist and not be deleted.
func (s *DefaultService) Submit(ctx context.Context, userID, threadID, runID string, rating Rating) (*Feedback, error) {
	if runID == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"run id must not be empty",
			nil,
			"feedback-submit-run",
		)
	}
	if !rating.Valid() {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"rating must be up or down",
			nil,
			"feedback-submit-rating",
		)
	}
	if _, err := s.threadSvc.Get(ctx, userID, threadID, false); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, &Feedback{
		ThreadID: threadID,
		RunID:    runID,
		UserID:   userID,
		Rating:   rating,
	}); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByRun(ctx, userID, threadID, runID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("thread_id", threadID).
		Str("run_id", runID).
		Str("rating", string(rating)).
		Msg("run feedback recorded")
	return stored, nil
}

// GetByRun returns the user's rating for a run, or not found when none has
// been submitted.
func (s *DefaultService) GetByRun(ctx context.Context, userID, threadID, runID string) (*Feedback, error) {
	if _, err := s.threadSvc.Get(ctx, userID, threadID, false); err != nil {
		return nil, err
	}
	return s.repo.FindByRun(ctx, userID, threadID, runID)
}

// ListByThread returns all of the user's ratings in the thread, newest first.
func (s *DefaultService) ListByThread(ctx context.Context, userID, threadID string) ([]*Feedback, error) {
	if _, err := s.threadSvc.Get(ctx, userID, threadID, false); err != nil {
		return nil, err
	}
	return s.repo.FindByThread(ctx, userID, threadID)
}
