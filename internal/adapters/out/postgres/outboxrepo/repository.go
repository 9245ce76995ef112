package outboxrepo

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository writes messages inside a unit of work and serves the relay job.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add stores messages. A message id that is already stored is skipped.
func (r *GormOutboxRepository) Add(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	rows := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, fromMessage(m))
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// ListUnpublished returns up to limit pending messages, oldest first.
func (r *GormOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []MessageDTO
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at, id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		m, err := toMessage(row)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// MarkPublished stamps the messages as relayed.
func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.Bytes())
	}
	return r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id IN ?", keys).
		Update("published_at", at.UTC()).Error
}
