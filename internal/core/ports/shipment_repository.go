// Package ports defines the contracts between the shipment tracking core and its adapters:
// repositories bound to a unit of work, and collaborators such as the notifier, the token
// codecs and the ephemeral verification code store.
package ports

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
)

// ShipmentRepository persists Shipment aggregates together with their timeline and tag links.
type ShipmentRepository interface {
	// Add inserts a new shipment, its pending timeline events and its tag links.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update saves the mutable fields (estimated delivery, derived status), inserts the
	// pending timeline events and replaces the tag links.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get loads a shipment with its timeline, review and tags.
	// Returns errs.ErrObjectNotFound when the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetForUpdate is Get plus a row lock held until the unit of work ends, so that
	// concurrent writers of the same shipment are serialized.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// Delete removes the shipment and cascades to its events, review and tag links.
	Delete(ctx context.Context, id kernel.UUID) error
}
