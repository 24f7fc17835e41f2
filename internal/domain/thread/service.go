package thread

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"jan-server/services/agent-gateway/internal/infrastructure/observability"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
	"jan-server/services/agent-gateway/internal/utils/threadid"
)

// Service defines the thread lifecycle operations.
type Service interface {
	Create(ctx context.Context, userID string, title *string, metadata map[string]any) (*Thread, error)
	Get(ctx context.Context, userID, threadID string, includeDeleted bool) (*Thread, error)
	List(ctx context.Context, userID string, filter Filter, pagination *Pagination) ([]*Thread, int64, error)
	Update(ctx context.Context, userID, threadID string, params UpdateParams) (*Thread, error)
	Archive(ctx context.Context, userID, threadID string) (*Thread, error)
	Restore(ctx context.Context, userID, threadID string) (*Thread, error)
	SoftDelete(ctx context.Context, userID, threadID string) (*Thread, error)
}

// DefaultService implements Service on top of a Repository.
type DefaultService struct {
	repo Repository
	log  zerolog.Logger
}

// NewService creates the thread service.
func NewService(repo Repository, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo: repo,
		log:  log.With().Str("domain", "thread").Logger(),
	}
}

// Create allocates a new identifier and stores an active thread.
func (s *DefaultService) Create(ctx context.Context, userID string, title *string, metadata map[string]any) (*Thread, error) {
	id, err := threadid.New()
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"failed to generate thread id",
			err,
			"thread-id-generation",
		)
	}

	t := NewThread(id, userID, title, metadata)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.Debug().Str("thread_id", t.ThreadID).Str("user_id", userID).Msg("thread created")
	return t, nil
}

// Get returns the thread owned by userID. Soft-deleted threads are hidden
// unless includeDeleted is set.
func (s *DefaultService) Get(ctx context.Context, userID, threadID string, includeDeleted bool) (*Thread, error) {
	t, err := s.repo.FindByID(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	if t.Status == StatusDeleted && !includeDeleted {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("thread not found: %s", threadID),
			nil,
			"thread-get-deleted",
		)
	}
	return t, nil
}

// List returns threads owned by userID matching the filter.
func (s *DefaultService) List(ctx context.Context, userID string, filter Filter, pagination *Pagination) ([]*Thread, int64, error) {
	return s.repo.FindByFilter(ctx, userID, filter, pagination)
}

// Update applies only the fields present in params and refreshes updated_at.
// A patch that supplies no fields returns the current thread untouched.
func (s *DefaultService) Update(ctx context.Context, userID, threadID string, params UpdateParams) (*Thread, error) {
	t, err := s.Get(ctx, userID, threadID, false)
	if err != nil {
		return nil, err
	}

	if params.IsEmpty() {
		return t, nil
	}

	if params.Title != nil {
		t.Title = params.Title
	}
	if params.Metadata != nil {
		t.Metadata = *params.Metadata
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Archive moves an active thread to archived.
func (s *DefaultService) Archive(ctx context.Context, userID, threadID string) (*Thread, error) {
	return s.transition(ctx, userID, threadID, StatusArchived, StatusActive)
}

// Restore moves an archived thread back to active.
func (s *DefaultService) Restore(ctx context.Context, userID, threadID string) (*Thread, error) {
	return s.transition(ctx, userID, threadID, StatusActive, StatusArchived)
}

// SoftDelete marks the thread deleted. Deleted is terminal; a second call is
// a conflict, never a silent success.
func (s *DefaultService) SoftDelete(ctx context.Context, userID, threadID string) (*Thread, error) {
	return s.transition(ctx, userID, threadID, StatusDeleted, StatusActive, StatusArchived)
}

// transition enforces the state machine edges: the thread must currently be
// in one of the allowed states to move to target.
func (s *DefaultService) transition(ctx context.Context, userID, threadID string, target Status, allowed ...Status) (*Thread, error) {
	t, err := s.repo.FindByID(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	permitted := false
	for _, status := range allowed {
		if t.Status == status {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict,
			fmt.Sprintf("cannot move thread %s from %s to %s", threadID, t.Status, target),
			nil,
			"thread-transition-conflict",
		)
	}

	from := t.Status
	t.Status = target
	t.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(observability.ThreadAttributes(threadID, userID, string(target))...)
	observability.AddStatusTransition(span, string(from), string(target))

	s.log.Debug().
		Str("thread_id", threadID).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("thread status changed")
	return t, nil
}
