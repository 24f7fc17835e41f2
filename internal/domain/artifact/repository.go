package artifact

import "context"

// Repository persists artifact metadata. Implementations scope every query by
// user id.
type Repository interface {
	InsertBatch(ctx context.Context, userID, threadID string, inputs []Input) ([]*Artifact, error)
	FindByID(ctx context.Context, userID, artifactID string) (*Artifact, error)
	FindByThread(ctx context.Context, userID, threadID string, filter Filter) ([]*Artifact, error)
	// FindByRunIDs returns the artifacts of a thread whose run_id is in the
	// given set, in one query.
	FindByRunIDs(ctx context.Context, userID, threadID string, runIDs []string) ([]*Artifact, error)
	Delete(ctx context.Context, userID, artifactID string) error
}
