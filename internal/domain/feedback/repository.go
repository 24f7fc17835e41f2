package feedback

import "context"

// Repository persists run ratings. Implementations scope every query by user
// id and enforce the one-rating-per-run-per-user constraint on write.
type Repository interface {
	Upsert(ctx context.Context, f *Feedback) error
	FindByRun(ctx context.Context, userID, threadID, runID string) (*Feedback, error)
	FindByThread(ctx context.Context, userID, threadID string) ([]*Feedback, error)
}
