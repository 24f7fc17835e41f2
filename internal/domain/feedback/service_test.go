package feedback_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/feedback"
	"jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// MockRepository is an in-memory feedback.Repository keyed by (run, user),
// matching the database's unique constraint.
type MockRepository struct {
	rows map[string]*feedback.Feedback

	upserts int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{rows: make(map[string]*feedback.Feedback)}
}

func key(runID, userID string) string {
	return runID + "/" + userID
}

func (m *MockRepository) Upsert(ctx context.Context, f *feedback.Feedback) error {
	m.upserts++
	if existing, ok := m.rows[key(f.RunID, f.UserID)]; ok {
		existing.Rating = f.Rating
		return nil
	}
	clone := *f
	clone.ID = "fb-" + f.RunID
	m.rows[key(f.RunID, f.UserID)] = &clone
	return nil
}

func (m *MockRepository) FindByRun(ctx context.Context, userID, threadID, runID string) (*feedback.Feedback, error) {
	f, ok := m.rows[key(runID, userID)]
	if !ok || f.ThreadID != threadID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "feedback not found", nil, "mock-feedback-find-001")
	}
	clone := *f
	return &clone, nil
}

func (m *MockRepository) FindByThread(ctx context.Context, userID, threadID string) ([]*feedback.Feedback, error) {
	var out []*feedback.Feedback
	for _, f := range m.rows {
		if f.UserID != userID || f.ThreadID != threadID {
			continue
		}
		clone := *f
		out = append(out, &clone)
	}
	return out, nil
}

// MockThreadService is a thread.Service for testing.
type MockThreadService struct {
	GetFunc func(ctx context.Context, userID, threadID string, includeDeleted bool) (*thread.Thread, error)
}

func (m *MockThreadService) Create(ctx context.Context, userID string, title *string, metadata map[string]any) (*thread.Thread, error) {
	return nil, nil
}

func (m *MockThreadService) Get(ctx context.Context, userID, threadID string, includeDeleted bool) (*thread.Thread, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, threadID, includeDeleted)
	}
	return &thread.Thread{ThreadID: threadID, UserID: userID, Status: thread.StatusActive}, nil
}

func (m *MockThreadService) List(ctx context.Context, userID string, filter thread.Filter, pagination *thread.Pagination) ([]*thread.Thread, int64, error) {
	return nil, 0, nil
}

func (m *MockThreadService) Update(ctx context.Context, userID, threadID string, params thread.UpdateParams) (*thread.Thread, error) {
	return nil, nil
}

func (m *MockThreadService) Archive(ctx context.Context, userID, threadID string) (*thread.Thread, error) {
	return nil, nil
}

func (m *MockThreadService) Restore(ctx context.Context, userID, threadID string) (*thread.Thread, error) {
	return nil, nil
}

func (m *MockThreadService) SoftDelete(ctx context.Context, userID, threadID string) (*thread.Thread, error) {
	return nil, nil
}

func newService(repo *MockRepository) feedback.Service {
	return feedback.NewService(repo, &MockThreadService{}, zerolog.Nop())
}

func TestSubmit(t *testing.T) {
	repo := NewMockRepository()
	svc := newService(repo)

	stored, err := svc.Submit(context.Background(), "user-1", "thread-1", "r1", feedback.RatingUp)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if stored.Rating != feedback.RatingUp {
		t.Errorf("Submit() rating = %v, want up", stored.Rating)
	}
	if stored.ID == "" {
		t.Errorf("Submit() returned feedback without an id")
	}
}

func TestSubmit_ReplacesExistingRating(t *testing.T) {
	repo := NewMockRepository()
	svc := newService(repo)

	first, err := svc.Submit(context.Background(), "user-1", "thread-1", "r1", feedback.RatingUp)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	second, err := svc.Submit(context.Background(), "user-1", "thread-1", "r1", feedback.RatingDown)
	if err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}

	// One row per run per user: the resubmission replaces, never duplicates.
	if second.ID != first.ID {
		t.Errorf("second Submit() id = %q, want the original row %q", second.ID, first.ID)
	}
	if second.Rating != feedback.RatingDown {
		t.Errorf("second Submit() rating = %v, want down", second.Rating)
	}
	if len(repo.rows) != 1 {
		t.Errorf("repository holds %d rows, want 1", len(repo.rows))
	}
}

func TestSubmit_SeparateUsers(t *testing.T) {
	repo := NewMockRepository()
	svc := newService(repo)

	if _, err := svc.Submit(context.Background(), "user-1", "thread-1", "r1", feedback.RatingUp); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := svc.Submit(context.Background(), "user-2", "thread-1", "r1", feedback.RatingDown); err != nil {
		t.Fatalf("Submit() by second user error = %v", err)
	}
	if len(repo.rows) != 2 {
		t.Errorf("repository holds %d rows, want one per user", len(repo.rows))
	}
}

func TestSubmit_InvalidRating(t *testing.T) {
	repo := NewMockRepository()
	svc := newService(repo)

	_, err := svc.Submit(context.Background(), "user-1", "thread-1", "r1", feedback.Rating("meh"))
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("Submit() error = %v, want validation", err)
	}
	if repo.upserts != 0 {
		t.Errorf("repository written %d times for an invalid rating, want 0", repo.upserts)
	}
}

func TestSubmit_EmptyRun(t *testing.T) {
	repo := NewMockRepository()
	svc := newService(repo)

	_, err := svc.Submit(context.Background(), "user-1", "thread-1", "", feedback.RatingUp)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("Submit() error = %v, want validation", err)
	}
}

func TestSubmit_ThreadMissing(t *testing.T) {
	repo := NewMockRepository()
	threadSvc := &MockThreadService{
		GetFunc: func(ctx context.Context, userID, threadID string, includeDeleted bool) (*thread.Thread, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "thread not found", nil, "mock-thread-get-001")
		},
	}
	svc := feedback.NewService(repo, threadSvc, zerolog.Nop())

	_, err := svc.Submit(context.Background(), "user-1", "thread-1", "r1", feedback.RatingUp)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("Submit() error = %v, want not found", err)
	}
	if repo.upserts != 0 {
		t.Errorf("repository written %d times for a missing thread, want 0", repo.upserts)
	}
}

func TestGetByRun_Missing(t *testing.T) {
	repo := NewMockRepository()
	svc := newService(repo)

	_, err := svc.GetByRun(context.Background(), "user-1", "thread-1", "r1")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("GetByRun() error = %v, want not found", err)
	}
}

func TestListByThread(t *testing.T) {
	repo := NewMockRepository()
	svc := newService(repo)

	if _, err := svc.Submit(context.Background(), "user-1", "thread-1", "r1", feedback.RatingUp); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := svc.Submit(context.Background(), "user-1", "thread-1", "r2", feedback.RatingDown); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	items, err := svc.ListByThread(context.Background(), "user-1", "thread-1")
	if err != nil {
		t.Fatalf("ListByThread() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("ListByThread() returned %d items, want 2", len(items))
	}
}
