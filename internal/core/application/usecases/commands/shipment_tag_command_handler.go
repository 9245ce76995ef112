package commands

import (
	"context"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/model/tag"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
)

// AddShipmentTagCommandHandler attaches a vocabulary tag to a shipment for its owning seller.
// Adding a tag that is already attached changes nothing and succeeds.
//
// Returns:
//   - errs.ErrObjectNotFound when the shipment or the tag does not exist
//   - errs.ErrClientNotAuthorized when the acting seller does not own the shipment
type AddShipmentTagCommandHandler struct {
	uowFactory TaggingUoWFactory
	gate       services.AuthorizationGate
}

func NewAddShipmentTagCommandHandler(uowFactory TaggingUoWFactory) AddShipmentTagCommandHandler {
	return AddShipmentTagCommandHandler{uowFactory: uowFactory, gate: services.NewAuthorizationGate()}
}

func (h AddShipmentTagCommandHandler) Handle(ctx context.Context, cmd AddShipmentTagCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runTagging(ctx, h.uowFactory, h.gate, services.ActionAddTag, cmd.ShipmentTagCommand,
		func(s *shipment.Shipment, t *tag.Tag) (bool, error) {
			return s.AddTag(t)
		})
}

// RemoveShipmentTagCommandHandler detaches a vocabulary tag from a shipment.
type RemoveShipmentTagCommandHandler struct {
	uowFactory TaggingUoWFactory
	gate       services.AuthorizationGate
}

func NewRemoveShipmentTagCommandHandler(uowFactory TaggingUoWFactory) RemoveShipmentTagCommandHandler {
	return RemoveShipmentTagCommandHandler{uowFactory: uowFactory, gate: services.NewAuthorizationGate()}
}

func (h RemoveShipmentTagCommandHandler) Handle(ctx context.Context, cmd RemoveShipmentTagCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runTagging(ctx, h.uowFactory, h.gate, services.ActionRemoveTag, cmd.ShipmentTagCommand,
		func(s *shipment.Shipment, t *tag.Tag) (bool, error) {
			return s.RemoveTag(t.Name()), nil
		})
}

// runTagging loads the shipment and the tag, applies mutate and saves only on change.
func runTagging(
	ctx context.Context,
	uowFactory TaggingUoWFactory,
	gate services.AuthorizationGate,
	action services.Action,
	cmd ShipmentTagCommand,
	mutate func(*shipment.Shipment, *tag.Tag) (bool, error),
) error {
	uow := uowFactory.Create()
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

	if err = gate.Authorize(services.NewSellerPrincipal(cmd.SellerID()), action, s); err != nil {
		return err
	}

	t, err := resolveTag(ctx, uow.TagRepository(), cmd.TagName())
	if err != nil {
		return err
	}

	changed, err := mutate(s, t)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err = repo.Update(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// resolveTag maps a raw name to a persisted vocabulary tag. Names outside the vocabulary
// are reported as not found, like vocabulary rows missing from the table.
func resolveTag(ctx context.Context, repo ports.TagRepository, raw string) (*tag.Tag, error) {
	name, err := tag.ParseName(raw)
	if err != nil {
		return nil, errs.NewObjectNotFoundErrorWithCause("tag", raw, err)
	}
	return repo.GetByName(ctx, name)
}
