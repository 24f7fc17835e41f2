package chat

import "context"

// Repository persists chat messages.
type Repository interface {
	// InsertBatch stores all messages atomically and stamps the owning
	// thread's updated_at in the same transaction. Messages are returned
	// with server-assigned ids and timestamps.
	InsertBatch(ctx context.Context, userID, threadID string, inputs []MessageInput) ([]Message, error)

	// ListByThread returns the thread's messages ordered by creation time
	// ascending.
	ListByThread(ctx context.Context, userID, threadID string) ([]Message, error)
}
