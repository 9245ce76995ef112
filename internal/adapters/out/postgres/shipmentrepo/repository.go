package shipmentrepo

import (
	"context"
	"errors"

	"fastship/internal/adapters/out/postgres/reviewrepo"
	"fastship/internal/adapters/out/postgres/tagrepo"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new shipment with its pending events and tag links.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Create(&dto).Error; err != nil {
		return err
	}

	if err := r.insertEvents(db, dto.ID, aggregate.NewEvents()); err != nil {
		return err
	}
	if links := tagLinksFromDomain(dto.ID, aggregate.Tags()); len(links) > 0 {
		if err := db.Create(&links).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the estimated delivery and the derived status, inserts the pending
// events and replaces the tag links.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&ShipmentDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"estimated_delivery": dto.EstimatedDelivery,
		"status":             dto.Status,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipment", aggregate.ID().String())
	}

	if err := r.insertEvents(db, dto.ID, aggregate.NewEvents()); err != nil {
		return err
	}

	if err := db.Where("shipment_id = ?", dto.ID).Delete(&ShipmentTagDTO{}).Error; err != nil {
		return err
	}
	if links := tagLinksFromDomain(dto.ID, aggregate.Tags()); len(links) > 0 {
		if err := db.Create(&links).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a shipment with its timeline, review and tags.
func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	return r.load(ctx, id, false)
}

// GetForUpdate is Get with a row lock on postgres. SQLite serializes writers on its own.
func (r *GormShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	return r.load(ctx, id, true)
}

// Delete removes the shipment with its events, review and tag links.
func (r *GormShipmentRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	key := id.Bytes()
	for _, child := range []any{&EventDTO{}, &ShipmentTagDTO{}, &reviewrepo.ReviewDTO{}} {
		if err := db.Where("shipment_id = ?", key).Delete(child).Error; err != nil {
			return err
		}
	}

	result := db.Where("id = ?", key).Delete(&ShipmentDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}
	return nil
}

func (r *GormShipmentRepository) load(ctx context.Context, id kernel.UUID, lock bool) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	key := id.Bytes()

	query := db
	if lock && db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto ShipmentDTO
	if err := query.First(&dto, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	var events []EventDTO
	if err := db.Where("shipment_id = ?", key).Order("created_at, id").Find(&events).Error; err != nil {
		return nil, err
	}

	var reviews []reviewrepo.ReviewDTO
	if err := db.Where("shipment_id = ?", key).Limit(1).Find(&reviews).Error; err != nil {
		return nil, err
	}
	var reviewRow *reviewrepo.ReviewDTO
	if len(reviews) == 1 {
		reviewRow = &reviews[0]
	}

	var tags []tagrepo.TagDTO
	if err := db.Model(&tagrepo.TagDTO{}).
		Select("tags.*").
		Joins("JOIN shipment_tags ON shipment_tags.tag_id = tags.id").
		Where("shipment_tags.shipment_id = ?", key).
		Order("tags.name").
		Find(&tags).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, events, reviewRow, tags)
}

// insertEvents writes events that are not stored yet. Saving the same aggregate twice in
// one unit of work is harmless.
func (r *GormShipmentRepository) insertEvents(db *gorm.DB, shipmentID uuid.UUID, events []*shipment.Event) error {
	if len(events) == 0 {
		return nil
	}

	rows := eventsFromDomain(shipmentID, events)
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
