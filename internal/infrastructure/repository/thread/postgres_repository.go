package thread

import (
	"context"

	"gorm.io/gorm"

	domain "jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/infrastructure/database/entities"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for threads.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new thread record.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Thread) error {
	entity := entities.NewSchemaThread(t)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create thread",
			err,
			"thread-create-db-001",
		)
	}
	return nil
}

// FindByID retrieves a thread by id, scoped to its owner. A thread owned by
// another user surfaces as not found.
func (r *PostgresRepository) FindByID(ctx context.Context, userID, threadID string) (*domain.Thread, error) {
	var entity entities.Thread
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"thread not found",
				err,
				"thread-find-notfound-001",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find thread",
			err,
			"thread-find-db-001",
		)
	}
	return entity.EtoD(), nil
}

// FindByFilter retrieves the user's threads matching the filter, most
// recently updated first.
func (r *PostgresRepository) FindByFilter(ctx context.Context, userID string, filter domain.Filter, pagination *domain.Pagination) ([]*domain.Thread, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Thread{}).
		Where("user_id = ?", userID)

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	} else {
		query = query.Where("status <> ?", string(domain.StatusDeleted))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count threads",
			err,
			"thread-list-count-001",
		)
	}

	query = query.Order("updated_at DESC")
	if pagination != nil {
		query = query.Limit(pagination.Limit).Offset(pagination.Offset)
	}

	var rows []entities.Thread
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list threads",
			err,
			"thread-list-db-001",
		)
	}

	threads := make([]*domain.Thread, 0, len(rows))
	for i := range rows {
		threads = append(threads, rows[i].EtoD())
	}
	return threads, total, nil
}

// Update persists the thread's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, t *domain.Thread) error {
	entity := entities.NewSchemaThread(t)

	updates := map[string]interface{}{
		"status":     entity.Status,
		"title":      entity.Title,
		"metadata":   entity.Metadata,
		"updated_at": entity.UpdatedAt,
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Thread{}).
		Where("thread_id = ? AND user_id = ?", t.ThreadID, t.UserID).
		Updates(updates)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update thread",
			result.Error,
			"thread-update-db-001",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"thread not found",
			nil,
			"thread-update-notfound-001",
		)
	}
	return nil
}
