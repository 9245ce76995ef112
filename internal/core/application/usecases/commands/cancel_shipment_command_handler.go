package commands

import (
	"context"
	"time"

	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
)

// CancelShipmentCommandHandler appends a cancelled event for the owning seller.
// The current status is not checked: even a delivered shipment can be cancelled.
// Cancelling an active shipment gives one unit of capacity back to the assigned partner.
// The customer is notified only after the commit.
//
// Returns:
//   - errs.ErrObjectNotFound when the shipment does not exist
//   - errs.ErrClientNotAuthorized when the acting seller does not own the shipment
type CancelShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	gate       services.AuthorizationGate
	notifier   ports.ShipmentNotifier
}

func NewCancelShipmentCommandHandler(uowFactory ShipmentUoWFactory, notifier ports.ShipmentNotifier) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory: uowFactory,
		gate:       services.NewAuthorizationGate(),
		notifier:   notifier,
	}
}

func (h CancelShipmentCommandHandler) Handle(ctx context.Context, cmd CancelShipmentCommand) error {
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

	if err = h.gate.Authorize(services.NewSellerPrincipal(cmd.SellerID()), services.ActionCancel, s); err != nil {
		return err
	}

	before := s.Status()
	if _, err = s.Cancel(time.Now()); err != nil {
		return err
	}
	appended := s.NewEvents()

	if err = repo.Update(ctx, s); err != nil {
		return err
	}

	if err = adjustCapacity(ctx, uow.PartnerRepository(), s.DeliveryPartnerID(), before, s.Status()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifyEvents(ctx, h.notifier, s.ID(), appended)
	return nil
}
