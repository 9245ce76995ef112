// Package review models the customer's rating of a delivered shipment.
package review

import (
	"errors"
	"strings"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

const (
	RatingMin = 1
	RatingMax = 5

	commentMaxLength = 1000
)

// ErrReviewIsNotConstructed is returned when a Review was not created through NewReview.
var ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview constructor")

// Review is the single rating a shipment can receive.
type Review struct {
	id         kernel.UUID
	shipmentID kernel.UUID
	rating     int
	comment    *string
	createdAt  time.Time
	guard      guard.ConstructorGuard
}

// NewReview validates the rating and an optional comment.
//
// Parameters:
//   - shipmentID: the rated shipment; Shipment.Rate rejects a review of another shipment
//   - rating: RatingMin..RatingMax
//   - comment: optional, up to 1000 characters; a blank comment is stored as no comment
//
// Returns:
//   - errs.ErrValueIsOutOfRange for a rating outside 1..5 or a comment that is too long
func NewReview(id, shipmentID kernel.UUID, rating int, comment *string, createdAt time.Time) (*Review, error) {
	r := &Review{
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setShipmentID(shipmentID),
		r.setRating(rating),
		r.setComment(comment),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreReview rehydrates a persisted review.
func RestoreReview(id, shipmentID kernel.UUID, rating int, comment *string, createdAt time.Time) (*Review, error) {
	return NewReview(id, shipmentID, rating, comment, createdAt)
}

func (r *Review) Validate() error {
	if r == nil {
		return ErrReviewIsNotConstructed
	}
	return r.guard.Validate(ErrReviewIsNotConstructed)
}

func (r *Review) ID() kernel.UUID {
	return r.id
}

func (r *Review) ShipmentID() kernel.UUID {
	return r.shipmentID
}

func (r *Review) Rating() int {
	return r.rating
}

// Comment returns nil when the customer left no comment.
func (r *Review) Comment() *string {
	if r.comment == nil {
		return nil
	}
	c := *r.comment
	return &c
}

func (r *Review) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Review) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Review) setShipmentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.shipmentID = id
	return nil
}

func (r *Review) setRating(rating int) error {
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}
	r.rating = rating
	return nil
}

func (r *Review) setComment(comment *string) error {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	if len([]rune(trimmed)) > commentMaxLength {
		return errs.NewValueIsOutOfRangeError("comment length", len([]rune(trimmed)), 0, commentMaxLength)
	}
	r.comment = &trimmed
	return nil
}
