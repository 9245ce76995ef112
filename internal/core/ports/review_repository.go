package ports

import (
	"context"

	"fastship/internal/core/domain/model/review"
)

// ReviewRepository stores customer reviews. A shipment has at most one review; a second
// insert for the same shipment fails with shipment.ErrShipmentAlreadyReviewed.
type ReviewRepository interface {
	Add(ctx context.Context, r *review.Review) error
}
