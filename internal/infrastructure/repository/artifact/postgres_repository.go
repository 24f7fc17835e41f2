package artifact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "jan-server/services/agent-gateway/internal/domain/artifact"
	"jan-server/services/agent-gateway/internal/infrastructure/database/entities"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for artifact metadata.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertBatch stores the artifact records atomically.
func (r *PostgresRepository) InsertBatch(ctx context.Context, userID, threadID string, inputs []domain.Input) ([]*domain.Artifact, error) {
	now := time.Now().UTC()

	rows := make([]entities.Artifact, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, entities.Artifact{
			ID:        uuid.New().String(),
			ThreadID:  threadID,
			UserID:    userID,
			RunID:     in.RunID,
			Type:      string(in.Type),
			Name:      in.Name,
			Path:      in.Path,
			AssetID:   in.AssetID,
			IsFolder:  in.IsFolder,
			CreatedAt: now,
		})
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert artifacts",
			err,
			"artifact-insert-db-001",
		)
	}

	artifacts := make([]*domain.Artifact, 0, len(rows))
	for i := range rows {
		artifacts = append(artifacts, rows[i].EtoD())
	}
	return artifacts, nil
}

// FindByID retrieves an artifact by id, scoped to its owner.
func (r *PostgresRepository) FindByID(ctx context.Context, userID, artifactID string) (*domain.Artifact, error) {
	var entity entities.Artifact
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", artifactID, userID).
		First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"artifact not found",
				err,
				"artifact-find-notfound-001",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find artifact",
			err,
			"artifact-find-db-001",
		)
	}
	return entity.EtoD(), nil
}

// FindByThread retrieves the thread's artifacts, newest first.
func (r *PostgresRepository) FindByThread(ctx context.Context, userID, threadID string, filter domain.Filter) ([]*domain.Artifact, error) {
	query := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID)

	if filter.RunID != nil {
		query = query.Where("run_id = ?", *filter.RunID)
	}

	var rows []entities.Artifact
	if err := query.
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list artifacts",
			err,
			"artifact-list-db-001",
		)
	}

	artifacts := make([]*domain.Artifact, 0, len(rows))
	for i := range rows {
		artifacts = append(artifacts, rows[i].EtoD())
	}
	return artifacts, nil
}

// FindByRunIDs retrieves all artifacts of the thread whose run_id is in the
// set, in a single query.
func (r *PostgresRepository) FindByRunIDs(ctx context.Context, userID, threadID string, runIDs []string) ([]*domain.Artifact, error) {
	if len(runIDs) == 0 {
		return []*domain.Artifact{}, nil
	}

	var rows []entities.Artifact
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Where("run_id IN ?", runIDs).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list artifacts by run",
			err,
			"artifact-run-db-001",
		)
	}

	artifacts := make([]*domain.Artifact, 0, len(rows))
	for i := range rows {
		artifacts = append(artifacts, rows[i].EtoD())
	}
	return artifacts, nil
}

// Delete removes an artifact record, scoped to its owner.
func (r *PostgresRepository) Delete(ctx context.Context, userID, artifactID string) error {
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", artifactID, userID).
		Delete(&entities.Artifact{}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete artifact",
			err,
			"artifact-delete-db-001",
		)
	}
	return nil
}
