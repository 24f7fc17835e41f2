package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "jan-server/services/agent-gateway/internal/domain/feedback"
	"jan-server/services/agent-gateway/internal/infrastructure/database/entities"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for run feedback.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert stores the rating. A conflict on (run_id, user_id) replaces the
// existing rating in place, so the database enforces one row per run per user.
func (r *PostgresRepository) Upsert(ctx context.Context, f *domain.Feedback) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	entity := entities.NewSchemaChatFeedback(f)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).
		Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to store feedback",
			err,
			"feedback-upsert-db-001",
		)
	}
	return nil
}

// FindByRun retrieves the user's rating for a run within the thread.
func (r *PostgresRepository) FindByRun(ctx context.Context, userID, threadID, runID string) (*domain.Feedback, error) {
	var entity entities.ChatFeedback
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND run_id = ? AND user_id = ?", threadID, runID, userID).
		First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"feedback not found",
				err,
				"feedback-find-notfound-001",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find feedback",
			err,
			"feedback-find-db-001",
		)
	}
	return entity.EtoD(), nil
}

// FindByThread retrieves the user's ratings in the thread, newest first.
func (r *PostgresRepository) FindByThread(ctx context.Context, userID, threadID string) ([]*domain.Feedback, error) {
	var rows []entities.ChatFeedback
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list feedback",
			err,
			"feedback-list-db-001",
		)
	}

	out := make([]*domain.Feedback, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].EtoD())
	}
	return out, nil
}
