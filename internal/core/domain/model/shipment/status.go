package shipment

import (
	"fmt"

	"fastship/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment, derived from its latest timeline event.
// The string values are persisted and published as-is.
//
// Intended business progression:
//
//	placed ──> in_transit ──> out_for_delivery ──> delivered
//	   │            │                 │
//	   └────────────┴─────────────────┴──> cancelled
//
// The progression is not enforced: a partner advancing a shipment may set any
// recognized status, including a backward one.
type Status string

const (
	// StatusUndefined is reported for a shipment without timeline events.
	// It only exists before the initial placed event is appended.
	StatusUndefined Status = ""

	StatusPlaced         Status = "placed"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// Statuses lists every recognized status in business order.
func Statuses() []Status {
	return []Status{
		StatusPlaced,
		StatusInTransit,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCancelled,
	}
}

// ParseStatus converts a persisted or user supplied value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if err := s.Validate(); err != nil {
		return StatusUndefined, err
	}
	return s, nil
}

// Validate rejects StatusUndefined and anything outside the vocabulary.
func (s Status) Validate() error {
	for _, known := range Statuses() {
		if s == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the shipment no longer occupies partner capacity.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActive is the complement of IsTerminal for recognized statuses.
func (s Status) IsActive() bool {
	return s.Validate() == nil && !s.IsTerminal()
}

// Notifies reports whether reaching this status triggers a customer notification.
// In-transit scans are too frequent to notify on.
func (s Status) Notifies() bool {
	return s.Validate() == nil && s != StatusInTransit
}
