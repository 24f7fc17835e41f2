package thread

import "context"

// Repository persists thread records. Implementations scope every query by
// user id; a thread owned by another user is indistinguishable from a missing
// one.
type Repository interface {
	Create(ctx context.Context, t *Thread) error
	FindByID(ctx context.Context, userID, threadID string) (*Thread, error)
	FindByFilter(ctx context.Context, userID string, filter Filter, pagination *Pagination) ([]*Thread, int64, error)
	Update(ctx context.Context, t *Thread) error
}
