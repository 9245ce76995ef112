package commands

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"go.uber.org/zap"
)

// UpdateShipmentPartialCommandHandler applies a partial update by the assigned partner.
//
// Checks, in order:
//  1. the acting partner is the assigned one (errs.ErrClientNotAuthorized otherwise,
//     whatever the payload)
//  2. the update sets at least one field (errs.ErrBadRequest)
//  3. a delivered status carries the code issued when the shipment went out for delivery;
//     the code is consumed atomically so it cannot be replayed (errs.ErrClientNotAuthorized
//     on mismatch or when no code is on file)
//
// A consumed code is put back if the transaction then fails to commit.
type UpdateShipmentPartialCommandHandler struct {
	uowFactory ShipmentUoWFactory
	codes      ports.VerificationCodeStore
	gate       services.AuthorizationGate
	notifier   ports.ShipmentNotifier
	logger     *zap.Logger
}

func NewUpdateShipmentPartialCommandHandler(
	uowFactory ShipmentUoWFactory,
	codes ports.VerificationCodeStore,
	notifier ports.ShipmentNotifier,
	logger *zap.Logger,
) UpdateShipmentPartialCommandHandler {
	return UpdateShipmentPartialCommandHandler{
		uowFactory: uowFactory,
		codes:      codes,
		gate:       services.NewAuthorizationGate(),
		notifier:   notifier,
		logger:     logger.With(zap.String("component", "update_shipment_partial")),
	}
}

func (h UpdateShipmentPartialCommandHandler) Handle(ctx context.Context, cmd UpdateShipmentPartialCommand) error {
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

	if err = h.gate.Authorize(services.NewPartnerPrincipal(cmd.PartnerID()), services.ActionAdvancePartial, s); err != nil {
		return err
	}

	if cmd.Update().IsEmpty() {
		return errs.NewBadRequestError("no fields to update")
	}

	codeConsumed := false
	if cmd.Delivers() {
		if err = consumeDeliveryCode(ctx, h.codes, s.ID(), cmd.VerificationCode()); err != nil {
			return err
		}
		codeConsumed = true
	}

	if err = h.apply(ctx, uow, s, cmd); err != nil {
		if codeConsumed {
			restoreDeliveryCode(ctx, h.codes, h.logger, cmd.ShipmentID(), cmd.VerificationCode())
		}
		return err
	}

	return nil
}

// apply mutates the locked shipment, saves it and commits.
func (h UpdateShipmentPartialCommandHandler) apply(
	ctx context.Context,
	uow ShipmentUoW,
	s *shipment.Shipment,
	cmd UpdateShipmentPartialCommand,
) error {
	before := s.Status()
	if _, err := s.AdvancePartial(cmd.Update(), time.Now()); err != nil {
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
