package commands

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand asks to create a shipment on behalf of a seller.
// The shipment id is chosen by the caller so that it can read the shipment back.
//
// Example:
//
//	cmd, err := NewCreateShipmentCommand(kernel.NewUUID(), sellerID, details)
//	if err != nil {
//	    return fmt.Errorf("invalid shipment data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); errors.Is(err, services.ErrDeliveryPartnerNotAvailable) {
//	    // nobody delivers to details.Destination right now
//	}
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	sellerID   kernel.UUID
	details    shipment.Details

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand validates identifiers. The details are validated by the aggregate.
func NewCreateShipmentCommand(shipmentID, sellerID kernel.UUID, details shipment.Details) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setSellerID(sellerID),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return cmd, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c CreateShipmentCommand) SellerID() kernel.UUID {
	return c.sellerID
}

func (c CreateShipmentCommand) Details() shipment.Details {
	return c.details
}

func (c *CreateShipmentCommand) setShipmentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.shipmentID = id
	return nil
}

func (c *CreateShipmentCommand) setSellerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.sellerID = id
	return nil
}
