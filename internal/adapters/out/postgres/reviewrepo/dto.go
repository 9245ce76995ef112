// Package reviewrepo persists customer reviews. A shipment has at most one review,
// enforced by a unique index on shipment_id.
package reviewrepo

import (
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/review"

	"github.com/google/uuid"
)

type ReviewDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Rating     int       `gorm:"not null"`
	Comment    *string   `gorm:"size:1000"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (ReviewDTO) TableName() string {
	return "reviews"
}

func fromDomain(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID().Bytes(),
		ShipmentID: r.ShipmentID().Bytes(),
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		CreatedAt:  r.CreatedAt(),
	}
}

// ToDomain restores a review row.
func ToDomain(dto ReviewDTO) (*review.Review, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}
	return review.RestoreReview(id, shipmentID, dto.Rating, dto.Comment, dto.CreatedAt)
}
