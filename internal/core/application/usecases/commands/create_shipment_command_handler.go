package commands

import (
	"context"
	"fmt"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
)

// maxClaimAttempts bounds the assign-then-claim loop under contention.
const maxClaimAttempts = 8

// CreateShipmentCommandHandler creates a shipment, assigns it to the first serving partner
// with residual capacity and claims one unit of that partner's capacity, all in one
// transaction. Nothing is persisted when no partner is available.
type CreateShipmentCommandHandler struct {
	uowFactory CreateShipmentUoWFactory
	assigner   services.PartnerAssigner
	gate       services.AuthorizationGate
	notifier   ports.ShipmentNotifier
}

func NewCreateShipmentCommandHandler(
	uowFactory CreateShipmentUoWFactory,
	notifier ports.ShipmentNotifier,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		assigner:   services.NewPartnerAssigner(),
		gate:       services.NewAuthorizationGate(),
		notifier:   notifier,
	}
}

// Handle creates the shipment described by cmd.
//
// Returns:
//   - errs.ErrObjectNotFound when the seller does not exist
//   - services.ErrDeliveryPartnerNotAvailable when no serving partner has capacity
//   - validation errors for the shipment details
func (h CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.gate.Authorize(services.NewSellerPrincipal(cmd.SellerID()), services.ActionCreate, nil); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	owner, err := uow.SellerRepository().Get(ctx, cmd.SellerID())
	if err != nil {
		return err
	}

	details := cmd.Details()
	if err = details.Destination.Validate(); err != nil {
		return err
	}

	assigned, err := h.claimPartner(ctx, uow.PartnerRepository(), details.Destination)
	if err != nil {
		return err
	}

	created, err := shipment.NewShipment(
		cmd.ShipmentID(),
		details,
		owner.ID(),
		owner.ZipCode(),
		assigned.ID(),
		assigned.Name(),
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Add(ctx, created); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ctx, ports.ShipmentNotice{ShipmentID: created.ID(), Status: created.Status()})
	return nil
}

// claimPartner runs first-fit assignment and atomically claims the winner's capacity.
// A partner that lost a race for its last unit is excluded and assignment runs again.
func (h CreateShipmentCommandHandler) claimPartner(
	ctx context.Context,
	repo ports.PartnerRepository,
	destination kernel.ZipCode,
) (*partner.DeliveryPartner, error) {
	candidates, err := repo.ListServingZip(ctx, destination)
	if err != nil {
		return nil, err
	}

	for range maxClaimAttempts {
		chosen, err := h.assigner.Assign(destination, candidates)
		if err != nil {
			return nil, err
		}

		claimed, err := repo.Claim(ctx, chosen.ID())
		if err != nil {
			return nil, err
		}
		if claimed {
			return chosen, nil
		}

		candidates = without(candidates, chosen)
	}

	return nil, fmt.Errorf("%w: capacity claims kept failing", services.ErrDeliveryPartnerNotAvailable)
}

func without(candidates []*partner.DeliveryPartner, excluded *partner.DeliveryPartner) []*partner.DeliveryPartner {
	rest := make([]*partner.DeliveryPartner, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsEqual(excluded) {
			rest = append(rest, c)
		}
	}
	return rest
}
