package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "jan-server/services/agent-gateway/internal/domain/chat"
	"jan-server/services/agent-gateway/internal/infrastructure/database/entities"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for chat messages.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertBatch stores the batch and stamps the owning thread's updated_at in
// one transaction. Timestamps within the batch are offset by a microsecond
// each so created_at ordering matches submission order.
func (r *PostgresRepository) InsertBatch(ctx context.Context, userID, threadID string, inputs []domain.MessageInput) ([]domain.Message, error) {
	now := time.Now().UTC()

	rows := make([]entities.ChatMessage, 0, len(inputs))
	for i, in := range inputs {
		rows = append(rows, entities.ChatMessage{
			ID:        uuid.New().String(),
			ThreadID:  threadID,
			UserID:    userID,
			Role:      string(in.Role),
			Content:   in.Content,
			RunID:     in.RunID,
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Thread{}).
			Where("thread_id = ? AND user_id = ?", threadID, userID).
			Update("updated_at", now).Error
	})
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert messages",
			err,
			"chat-insert-db-001",
		)
	}

	messages := make([]domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].EtoD())
	}
	return messages, nil
}

// ListByThread retrieves the thread's messages ordered by creation time.
func (r *PostgresRepository) ListByThread(ctx context.Context, userID, threadID string) ([]domain.Message, error) {
	var rows []entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"chat-list-db-001",
		)
	}

	messages := make([]domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].EtoD())
	}
	return messages, nil
}
