package reviewrepo

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/review"
	"fastship/internal/core/domain/model/shipment"

	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Add inserts the review. A second review of the same shipment fails with
// shipment.ErrShipmentAlreadyReviewed even when two submissions race.
func (r *GormReviewRepository) Add(ctx context.Context, rv *review.Review) error {
	if err := rv.Validate(); err != nil {
		return err
	}

	dto := fromDomain(rv)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shipment.ErrShipmentAlreadyReviewed
		}
		return err
	}
	return nil
}
