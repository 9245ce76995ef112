package commands

import (
	"errors"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrUpdateShipmentCommandIsNotConstructed = errors.New(
	"UpdateShipmentCommand must be created via NewUpdateShipmentCommand constructor",
)

// UpdateShipmentCommand is the full update of a shipment by its assigned partner:
// a new status and estimated delivery, with optional location and description.
// Setting the status to delivered needs the verification code, as the partial update does.
type UpdateShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID       kernel.UUID
	partnerID        kernel.UUID
	update           shipment.FullUpdate
	verificationCode string

	guard guard.ConstructorGuard
}

func NewUpdateShipmentCommand(
	shipmentID, partnerID kernel.UUID,
	update shipment.FullUpdate,
	verificationCode string,
) (UpdateShipmentCommand, error) {
	cmd := UpdateShipmentCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		shipmentID.Validate(),
		partnerID.Validate(),
		cmd.setUpdate(update),
	); err != nil {
		return UpdateShipmentCommand{}, err
	}

	cmd.shipmentID = shipmentID
	cmd.partnerID = partnerID
	cmd.verificationCode = strings.TrimSpace(verificationCode)
	return cmd, nil
}

func (c UpdateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentCommandIsNotConstructed)
}

func (c UpdateShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c UpdateShipmentCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c UpdateShipmentCommand) Update() shipment.FullUpdate {
	return c.update
}

func (c UpdateShipmentCommand) VerificationCode() string {
	return c.verificationCode
}

// Delivers reports whether the update sets the status to delivered.
func (c UpdateShipmentCommand) Delivers() bool {
	return c.update.Status == shipment.StatusDelivered
}

func (c *UpdateShipmentCommand) setUpdate(update shipment.FullUpdate) error {
	if err := update.Status.Validate(); err != nil {
		return err
	}
	if update.EstimatedDelivery.IsZero() {
		return errs.NewValueIsRequiredError("estimated delivery")
	}
	c.update = update
	return nil
}
