package commands

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"go.uber.org/zap"
)

// adjustCapacity keeps the partner's active shipment counter in step with a status change.
func adjustCapacity(
	ctx context.Context,
	repo ports.PartnerRepository,
	partnerID kernel.UUID,
	before, after shipment.Status,
) error {
	switch shipment.CapacityDelta(before, after) {
	case -1:
		return repo.Release(ctx, partnerID)
	case 1:
		return repo.Reclaim(ctx, partnerID)
	default:
		return nil
	}
}

// notifyEvents informs the notification pipeline once per appended event.
// It must only be called after a successful commit.
func notifyEvents(ctx context.Context, notifier ports.ShipmentNotifier, shipmentID kernel.UUID, events []*shipment.Event) {
	for _, e := range events {
		notifier.Notify(ctx, ports.ShipmentNotice{ShipmentID: shipmentID, Status: e.Status()})
	}
}

// consumeDeliveryCode checks the code issued when the shipment went out for delivery and
// removes it from the store, so a code confirms at most one delivery.
//
// Returns errs.ErrClientNotAuthorized when the code is empty, wrong or no code is on file.
func consumeDeliveryCode(ctx context.Context, codes ports.VerificationCodeStore, shipmentID kernel.UUID, code string) error {
	if code == "" {
		return errs.NewClientNotAuthorizedError("confirm delivery without verification code")
	}
	ok, err := codes.Consume(ctx, shipmentID, code)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewClientNotAuthorizedError("confirm delivery with wrong verification code")
	}
	return nil
}

// restoreDeliveryCode puts a consumed code back after the transaction failed to commit.
func restoreDeliveryCode(
	ctx context.Context,
	codes ports.VerificationCodeStore,
	logger *zap.Logger,
	shipmentID kernel.UUID,
	code string,
) {
	if err := codes.Put(context.WithoutCancel(ctx), shipmentID, code); err != nil {
		logger.Warn("failed to restore verification code",
			zap.String("shipment_id", shipmentID.String()), zap.Error(err))
	}
}
