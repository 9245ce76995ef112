package commands

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"

	"go.uber.org/zap"
)

// UpdateShipmentCommandHandler applies a full update: it always appends one event.
// Any recognized status is accepted, including moving backwards; leaving or re-entering
// the active set adjusts the partner's capacity counter.
//
// Delivery is confirmed the same way as in UpdateShipmentPartialCommandHandler: the
// verification code is consumed inside the transaction and put back if the commit fails.
//
// Returns:
//   - errs.ErrObjectNotFound when the shipment does not exist
//   - errs.ErrClientNotAuthorized when the acting partner is not the assigned one, or when
//     a delivered status comes without the issued code
type UpdateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	codes      ports.VerificationCodeStore
	gate       services.AuthorizationGate
	notifier   ports.ShipmentNotifier
	logger     *zap.Logger
}

func NewUpdateShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	codes ports.VerificationCodeStore,
	notifier ports.ShipmentNotifier,
	logger *zap.Logger,
) UpdateShipmentCommandHandler {
	return UpdateShipmentCommandHandler{
		uowFactory: uowFactory,
		codes:      codes,
		gate:       services.NewAuthorizationGate(),
		notifier:   notifier,
		logger:     logger.With(zap.String("component", "update_shipment")),
	}
}

func (h UpdateShipmentCommandHandler) Handle(ctx context.Context, cmd UpdateShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	s, err := repo.GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	if err = h.gate.Authorize(services.NewPartnerPrincipal(cmd.PartnerID()), services.ActionAdvance, s); err != nil {
		return err
	}

	if cmd.Delivers() {
		if err = consumeDeliveryCode(ctx, h.codes, s.ID(), cmd.VerificationCode()); err != nil {
			return err
		}
		if err = h.apply(ctx, uow, s, cmd); err != nil {
			restoreDeliveryCode(ctx, h.codes, h.logger, cmd.ShipmentID(), cmd.VerificationCode())
			return err
		}
		return nil
	}

	return h.apply(ctx, uow, s, cmd)
}

func (h UpdateShipmentCommandHandler) apply(
	ctx context.Context,
	uow ShipmentUoW,
	s *shipment.Shipment,
	cmd UpdateShipmentCommand,
) error {
	before := s.Status()
	if _, err := s.Advance(cmd.Update(), time.Now()); err != nil {
		return err
	}
	appended := s.NewEvents()

	if err := uow.ShipmentRepository().Update(ctx, s); err != nil {
		return err
	}

	if err := adjustCapacity(ctx, uow.PartnerRepository(), s.DeliveryPartnerID(), before, s.Status()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	notifyEvents(ctx, h.notifier, s.ID(), appended)
	return nil
}
