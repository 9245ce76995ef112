package commands

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/review"
	"fastship/internal/core/ports"
)

// RateShipmentCommandHandler stores the one review a shipment can receive.
//
// Returns:
//   - errs.ErrInvalidToken when the review token is forged, expired or for another purpose
//   - errs.ErrValueIsOutOfRange when the rating is outside 1..5
//   - errs.ErrObjectNotFound when the shipment no longer exists
//   - shipment.ErrShipmentAlreadyReviewed on a second review
type RateShipmentCommandHandler struct {
	uowFactory ReviewUoWFactory
	tokens     ports.URLTokenCodec
}

func NewRateShipmentCommandHandler(uowFactory ReviewUoWFactory, tokens ports.URLTokenCodec) RateShipmentCommandHandler {
	return RateShipmentCommandHandler{
		uowFactory: uowFactory,
		tokens:     tokens,
	}
}

func (h RateShipmentCommandHandler) Handle(ctx context.Context, cmd RateShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	shipmentID, err := h.tokens.Decode(cmd.Token(), ports.SaltShipmentReview)
	if err != nil {
		return err
	}

	rv, err := review.NewReview(kernel.NewUUID(), shipmentID, cmd.Rating(), cmd.Comment(), time.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, shipmentID)
	if err != nil {
		return err
	}

	if err = s.Rate(rv); err != nil {
		return err
	}

	if err = uow.ReviewRepository().Add(ctx, rv); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
