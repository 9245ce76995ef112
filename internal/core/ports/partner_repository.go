package ports

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
)

// PartnerRepository persists DeliveryPartner aggregates and owns the atomic capacity counter.
type PartnerRepository interface {
	// Add inserts a new partner. A duplicate email fails with ErrDuplicateEmail.
	Add(ctx context.Context, aggregate *partner.DeliveryPartner) error

	// Update saves profile fields and serviceable zip codes. It never writes the active
	// shipment counter, which is only changed by Claim, Release and Reclaim.
	Update(ctx context.Context, aggregate *partner.DeliveryPartner) error

	Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error)

	GetByEmail(ctx context.Context, email kernel.Email) (*partner.DeliveryPartner, error)

	// ListServingZip returns the partners whose serviceable zip codes contain zip,
	// in ascending id order.
	ListServingZip(ctx context.Context, zip kernel.ZipCode) ([]*partner.DeliveryPartner, error)

	// Claim atomically takes one unit of capacity: it increments the active shipment
	// counter only while it is below the maximum. It reports false when the partner
	// was full (or unknown) at the time of the update.
	Claim(ctx context.Context, id kernel.UUID) (bool, error)

	// Release gives one unit of capacity back. The counter never drops below zero.
	Release(ctx context.Context, id kernel.UUID) error

	// Reclaim takes one unit of capacity unconditionally, for a shipment that moved from
	// a terminal status back to an active one.
	Reclaim(ctx context.Context, id kernel.UUID) error

	// ReconcileActiveCounts recomputes every partner's counter from its non-terminal
	// shipments and returns the number of partners whose counter was corrected.
	ReconcileActiveCounts(ctx context.Context) (int64, error)
}
