package commands

import (
	"errors"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrShipmentTagCommandIsNotConstructed = errors.New(
	"ShipmentTagCommand must be created via NewShipmentTagCommand constructor",
)

// ShipmentTagCommand names a tag to add to or remove from a shipment on behalf of its seller.
// The tag name is resolved against the vocabulary table by the handler.
type ShipmentTagCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	sellerID   kernel.UUID
	tagName    string

	guard guard.ConstructorGuard
}

func NewShipmentTagCommand(shipmentID, sellerID kernel.UUID, tagName string) (ShipmentTagCommand, error) {
	cmd := ShipmentTagCommand{
		tagName: strings.TrimSpace(tagName),
		guard:   guard.NewConstructorGuard(),
	}

	var nameErr error
	if cmd.tagName == "" {
		nameErr = errs.NewValueIsRequiredError("tag name")
	}

	if err := errors.Join(shipmentID.Validate(), sellerID.Validate(), nameErr); err != nil {
		return ShipmentTagCommand{}, err
	}

	cmd.shipmentID = shipmentID
	cmd.sellerID = sellerID
	return cmd, nil
}

func (c ShipmentTagCommand) Validate() error {
	return c.guard.Validate(ErrShipmentTagCommandIsNotConstructed)
}

func (c ShipmentTagCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c ShipmentTagCommand) SellerID() kernel.UUID {
	return c.sellerID
}

func (c ShipmentTagCommand) TagName() string {
	return c.tagName
}

// AddShipmentTagCommand attaches a tag. Attaching a tag twice is a no-op.
type AddShipmentTagCommand struct{ ShipmentTagCommand }

// RemoveShipmentTagCommand detaches a tag. Detaching an absent tag is a no-op.
type RemoveShipmentTagCommand struct{ ShipmentTagCommand }

func NewAddShipmentTagCommand(shipmentID, sellerID kernel.UUID, tagName string) (AddShipmentTagCommand, error) {
	cmd, err := NewShipmentTagCommand(shipmentID, sellerID, tagName)
	return AddShipmentTagCommand{cmd}, err
}

func NewRemoveShipmentTagCommand(shipmentID, sellerID kernel.UUID, tagName string) (RemoveShipmentTagCommand, error) {
	cmd, err := NewShipmentTagCommand(shipmentID, sellerID, tagName)
	return RemoveShipmentTagCommand{cmd}, err
}
