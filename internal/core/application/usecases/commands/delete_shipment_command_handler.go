package commands

import (
	"context"

	"fastship/internal/core/domain/services"
)

// DeleteShipmentCommandHandler removes a shipment with its events, review and tag links.
// Deleting a shipment that is still active gives its unit of capacity back to the partner.
//
// Returns:
//   - errs.ErrObjectNotFound when the shipment does not exist
//   - errs.ErrClientNotAuthorized when the acting seller does not own the shipment
type DeleteShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	gate       services.AuthorizationGate
}

func NewDeleteShipmentCommandHandler(uowFactory ShipmentUoWFactory) DeleteShipmentCommandHandler {
	return DeleteShipmentCommandHandler{
		uowFactory: uowFactory,
		gate:       services.NewAuthorizationGate(),
	}
}

func (h DeleteShipmentCommandHandler) Handle(ctx context.Context, cmd DeleteShipmentCommand) error {
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

	if err = h.gate.Authorize(services.NewSellerPrincipal(cmd.SellerID()), services.ActionDelete, s); err != nil {
		return err
	}

	if s.Status().IsActive() {
		if err = uow.PartnerRepository().Release(ctx, s.DeliveryPartnerID()); err != nil {
			return err
		}
	}

	if err = repo.Delete(ctx, s.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
