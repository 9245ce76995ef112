// Package postgres provides the GORM implementation of the Unit of Work pattern and the
// database bootstrap (driver selection, pool tuning, migrations).
//
// A unit of work keeps one transaction open across the shipment, partner, seller, tag and
// review repositories. Shipment repositories report every aggregate they save back to the
// unit of work; on Commit the timeline events those aggregates appended are written to the
// outbox table in the same transaction, so an event is relayed to the event stream if and
// only if it was stored.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	s, err := uow.ShipmentRepository().GetForUpdate(ctx, id)
//	// ... mutate s
//	if err := uow.ShipmentRepository().Update(ctx, s); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency considerations:
//   - Each UnitOfWork instance provides an isolated transaction; goroutines must not share one
//   - GetForUpdate takes a row lock on postgres, held until Commit or Rollback
//   - Partner capacity is changed by conditional updates, never by read-modify-write
package postgres

import (
	"context"

	"fastship/internal/adapters/out/postgres/outboxrepo"
	"fastship/internal/adapters/out/postgres/partnerrepo"
	"fastship/internal/adapters/out/postgres/reviewrepo"
	"fastship/internal/adapters/out/postgres/sellerrepo"
	"fastship/internal/adapters/out/postgres/shipmentrepo"
	"fastship/internal/adapters/out/postgres/tagrepo"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate saved during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state and aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.create()
}

func (f *GormUnitOfWorkFactory) create() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction and the outbox of the shipment
// aggregates saved within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction. Calling it again while a transaction is open
// is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes the outbox messages of the tracked shipments and finalizes the transaction.
// After a successful commit the shipments no longer report their events as new.
//
// If writing the outbox fails the transaction stays open and the caller's Rollback closes it.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	shipments := uow.trackedShipments()
	if err := uow.writeOutbox(ctx, shipments); err != nil {
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if err != nil {
		return err
	}

	for _, s := range shipments {
		s.MarkEventsPersisted()
	}
	return nil
}

// Rollback discards all changes made within the current transaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// ShipmentRepository provides shipment persistence within the unit of work. Saved shipments
// are tracked for the outbox.
func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

// PartnerRepository provides delivery partner persistence within the unit of work.
func (uow *GormUnitOfWork) PartnerRepository() ports.PartnerRepository {
	return partnerrepo.NewGormPartnerRepository(uow.conn())
}

// SellerRepository provides seller persistence within the unit of work.
func (uow *GormUnitOfWork) SellerRepository() ports.SellerRepository {
	return sellerrepo.NewGormSellerRepository(uow.conn())
}

// TagRepository provides the tag vocabulary within the unit of work.
func (uow *GormUnitOfWork) TagRepository() ports.TagRepository {
	return tagrepo.NewGormTagRepository(uow.conn())
}

// ReviewRepository provides review persistence within the unit of work.
func (uow *GormUnitOfWork) ReviewRepository() ports.ReviewRepository {
	return reviewrepo.NewGormReviewRepository(uow.conn())
}

// TrackAggregate registers an aggregate saved within this unit of work. Called by
// repository implementations.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction, or the plain connection outside of one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// trackedShipments returns each tracked shipment once, in tracking order.
func (uow *GormUnitOfWork) trackedShipments() []*shipment.Shipment {
	seen := make(map[kernel.UUID]struct{}, len(uow.trackedAggregates))
	shipments := make([]*shipment.Shipment, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		s, ok := tracked.Aggregate.(*shipment.Shipment)
		if !ok {
			continue
		}
		if _, dup := seen[tracked.ID]; dup {
			continue
		}
		seen[tracked.ID] = struct{}{}
		shipments = append(shipments, s)
	}
	return shipments
}

func (uow *GormUnitOfWork) writeOutbox(ctx context.Context, shipments []*shipment.Shipment) error {
	var messages []ports.OutboxMessage
	for _, s := range shipments {
		for _, e := range s.NewEvents() {
			m, err := outboxrepo.NewShipmentEventMessage(s, e)
			if err != nil {
				return err
			}
			messages = append(messages, m)
		}
	}

	return outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, messages)
}
