// Package shipmentrepo persists shipments with their timeline events and tag links.
//
// The status of the latest event is denormalized onto the shipment row so that listings
// and the capacity reconciliation can filter by status without scanning the timeline.
package shipmentrepo

import (
	"time"

	"fastship/internal/adapters/out/postgres/reviewrepo"
	"fastship/internal/adapters/out/postgres/tagrepo"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/review"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/model/tag"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShipmentDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Content           string          `gorm:"size:255;not null"`
	Weight            decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	DestinationZip    int             `gorm:"not null"`
	ClientEmail       string          `gorm:"size:255;not null"`
	ClientPhone       *string         `gorm:"size:20"`
	EstimatedDelivery time.Time       `gorm:"not null"`
	CreatedAt         time.Time       `gorm:"not null;index"`
	SellerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryPartnerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status            string          `gorm:"size:32;not null;index"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// EventDTO is one timeline entry.
type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Location    int       `gorm:"not null"`
	Status      string    `gorm:"size:32;not null"`
	Description string    `gorm:"size:500;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (EventDTO) TableName() string {
	return "shipment_events"
}

// ShipmentTagDTO links a shipment to a vocabulary tag.
type ShipmentTagDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID      uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (ShipmentTagDTO) TableName() string {
	return "shipment_tags"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:                s.ID().Bytes(),
		Content:           s.Content(),
		Weight:            s.Weight(),
		DestinationZip:    s.Destination().Int(),
		ClientEmail:       s.ClientEmail().String(),
		ClientPhone:       s.ClientPhone(),
		EstimatedDelivery: s.EstimatedDelivery(),
		CreatedAt:         s.CreatedAt(),
		SellerID:          s.SellerID().Bytes(),
		DeliveryPartnerID: s.DeliveryPartnerID().Bytes(),
		Status:            string(s.Status()),
	}
}

func eventsFromDomain(shipmentID uuid.UUID, events []*shipment.Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventDTO{
			ID:          e.ID().Bytes(),
			ShipmentID:  shipmentID,
			Location:    e.Location().Int(),
			Status:      string(e.Status()),
			Description: e.Description(),
			CreatedAt:   e.CreatedAt(),
		})
	}
	return dtos
}

func tagLinksFromDomain(shipmentID uuid.UUID, tags []*tag.Tag) []ShipmentTagDTO {
	links := make([]ShipmentTagDTO, 0, len(tags))
	for _, t := range tags {
		links = append(links, ShipmentTagDTO{ShipmentID: shipmentID, TagID: t.ID().Bytes()})
	}
	return links
}

func eventToDomain(dto EventDTO) (*shipment.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewZipCode(dto.Location)
	if err != nil {
		return nil, err
	}
	return shipment.RestoreEvent(id, location, shipment.Status(dto.Status), dto.Description, dto.CreatedAt)
}

func toDomain(dto ShipmentDTO, events []EventDTO, reviewRow *reviewrepo.ReviewDTO, tagRows []tagrepo.TagDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.DeliveryPartnerID[:])
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewZipCode(dto.DestinationZip)
	if err != nil {
		return nil, err
	}
	email, err := kernel.NewEmail(dto.ClientEmail)
	if err != nil {
		return nil, err
	}

	timeline := make([]*shipment.Event, 0, len(events))
	for _, row := range events {
		e, eventErr := eventToDomain(row)
		if eventErr != nil {
			return nil, eventErr
		}
		timeline = append(timeline, e)
	}

	var rv *review.Review
	if reviewRow != nil {
		if rv, err = reviewrepo.ToDomain(*reviewRow); err != nil {
			return nil, err
		}
	}

	tags := make([]*tag.Tag, 0, len(tagRows))
	for _, row := range tagRows {
		t, tagErr := tagrepo.ToDomain(row)
		if tagErr != nil {
			return nil, tagErr
		}
		tags = append(tags, t)
	}

	eta := dto.EstimatedDelivery
	details := shipment.Details{
		Content:           dto.Content,
		Weight:            dto.Weight,
		Destination:       destination,
		ClientEmail:       email,
		ClientPhone:       dto.ClientPhone,
		EstimatedDelivery: &eta,
	}

	return shipment.RestoreShipment(id, details, dto.CreatedAt, sellerID, partnerID, timeline, rv, tags)
}
