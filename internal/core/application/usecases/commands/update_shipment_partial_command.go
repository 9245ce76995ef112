package commands

import (
	"errors"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/guard"
)

var ErrUpdateShipmentPartialCommandIsNotConstructed = errors.New(
	"UpdateShipmentPartialCommand must be created via NewUpdateShipmentPartialCommand constructor",
)

// UpdateShipmentPartialCommand is a partial update of a shipment by its assigned partner.
//
// The verification code is a credential proving physical delivery, not a shipment field:
// it is only consulted when the update sets the status to delivered. An update carrying
// nothing but a code is empty.
//
// The constructor accepts an empty update on purpose: the handler must refuse a foreign
// partner before it looks at the payload.
type UpdateShipmentPartialCommand struct { //nolint:recvcheck //using for validation
	shipmentID       kernel.UUID
	partnerID        kernel.UUID
	update           shipment.PartialUpdate
	verificationCode string

	guard guard.ConstructorGuard
}

func NewUpdateShipmentPartialCommand(
	shipmentID, partnerID kernel.UUID,
	update shipment.PartialUpdate,
	verificationCode string,
) (UpdateShipmentPartialCommand, error) {
	if err := errors.Join(
		shipmentID.Validate(),
		partnerID.Validate(),
	); err != nil {
		return UpdateShipmentPartialCommand{}, err
	}

	return UpdateShipmentPartialCommand{
		shipmentID:       shipmentID,
		partnerID:        partnerID,
		update:           update,
		verificationCode: strings.TrimSpace(verificationCode),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateShipmentPartialCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentPartialCommandIsNotConstructed)
}

func (c UpdateShipmentPartialCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c UpdateShipmentPartialCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c UpdateShipmentPartialCommand) Update() shipment.PartialUpdate {
	return c.update
}

func (c UpdateShipmentPartialCommand) VerificationCode() string {
	return c.verificationCode
}

// Delivers reports whether the update sets the status to delivered.
func (c UpdateShipmentPartialCommand) Delivers() bool {
	return c.update.Status != nil && *c.update.Status == shipment.StatusDelivered
}
