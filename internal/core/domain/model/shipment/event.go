package shipment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

const descriptionMaxLength = 500

// ErrEventIsNotConstructed is returned when an Event was not created through NewEvent or RestoreEvent.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

// Event is one entry of a shipment timeline: a scan or status change at a location.
// Events are immutable; the timeline only ever grows.
type Event struct {
	id          kernel.UUID
	location    kernel.ZipCode
	status      Status
	description string
	createdAt   time.Time
	guard       guard.ConstructorGuard
}

// NewEvent creates a timeline event.
//
// Shipments build their own events through Advance, AdvancePartial and Cancel; call NewEvent
// directly only to assemble a timeline outside an aggregate, for example in tests.
//
// Parameters:
//   - id: identifier of the event
//   - location: zip code where the scan or status change happened
//   - status: one of the recognized statuses
//   - description: free text up to 500 characters; a blank one is replaced by DescribeEvent
//   - createdAt: event time, stored in UTC
//
// Example:
//
//	e, err := shipment.NewEvent(kernel.NewUUID(), kernel.MustZipCode(10001),
//	    shipment.StatusInTransit, "", time.Now())
//	// e.Description() == "scanned at location 10001"
//
// Returns:
//   - The event, or the joined validation errors of its fields
func NewEvent(id kernel.UUID, location kernel.ZipCode, status Status, description string, createdAt time.Time) (*Event, error) {
	e := &Event{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		e.setID(id),
		e.setLocation(location),
		e.setStatus(status),
		e.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	if err := e.setDescription(description); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEvent rehydrates a persisted event.
func RestoreEvent(id kernel.UUID, location kernel.ZipCode, status Status, description string, createdAt time.Time) (*Event, error) {
	return NewEvent(id, location, status, description, createdAt)
}

// DescribeEvent generates the default human readable description of an event.
func DescribeEvent(status Status, location kernel.ZipCode) string {
	switch status {
	case StatusPlaced:
		return "assigned delivery partner"
	case StatusOutForDelivery:
		return "shipment out for delivery"
	case StatusDelivered:
		return "successfully delivered"
	case StatusCancelled:
		return "cancelled by seller"
	default:
		return fmt.Sprintf("scanned at location %s", location)
	}
}

func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

func (e *Event) ID() kernel.UUID {
	return e.id
}

func (e *Event) Location() kernel.ZipCode {
	return e.location
}

func (e *Event) Status() Status {
	return e.status
}

func (e *Event) Description() string {
	return e.description
}

func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Event) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Event) setLocation(location kernel.ZipCode) error {
	if err := location.Validate(); err != nil {
		return err
	}
	e.location = location
	return nil
}

func (e *Event) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	e.status = status
	return nil
}

func (e *Event) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("event created at")
	}
	e.createdAt = createdAt.UTC()
	return nil
}

// setDescription must run after status and location are set.
func (e *Event) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		description = DescribeEvent(e.status, e.location)
	}
	if len([]rune(description)) > descriptionMaxLength {
		return errs.NewValueIsOutOfRangeError("description length", len([]rune(description)), 1, descriptionMaxLength)
	}
	e.description = description
	return nil
}
