// Package outboxrepo stores domain events waiting to be relayed to the event stream.
package outboxrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"

	"github.com/google/uuid"
)

// MessageTypeShipmentEvent is the type of the message written for each timeline event.
const MessageTypeShipmentEvent = "shipment.event_appended"

type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Key         string     `gorm:"size:64;not null"`
	Type        string     `gorm:"size:64;not null"`
	Payload     []byte     `gorm:"not null"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	PublishedAt *time.Time `gorm:"index"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

// ShipmentEventPayload is the JSON body of a MessageTypeShipmentEvent message.
type ShipmentEventPayload struct {
	EventID           string    `json:"event_id"`
	ShipmentID        string    `json:"shipment_id"`
	SellerID          string    `json:"seller_id"`
	DeliveryPartnerID string    `json:"delivery_partner_id"`
	Status            string    `json:"status"`
	Location          int       `json:"location"`
	Description       string    `json:"description"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewShipmentEventMessage builds the outbox message announcing e. It is keyed by shipment
// id so that a shipment's events stay ordered within one partition.
func NewShipmentEventMessage(s *shipment.Shipment, e *shipment.Event) (ports.OutboxMessage, error) {
	payload, err := json.Marshal(ShipmentEventPayload{
		EventID:           e.ID().String(),
		ShipmentID:        s.ID().String(),
		SellerID:          s.SellerID().String(),
		DeliveryPartnerID: s.DeliveryPartnerID().String(),
		Status:            string(e.Status()),
		Location:          e.Location().Int(),
		Description:       e.Description(),
		CreatedAt:         e.CreatedAt(),
	})
	if err != nil {
		return ports.OutboxMessage{}, fmt.Errorf("encode shipment event %s: %w", e.ID(), err)
	}

	return ports.OutboxMessage{
		ID:        e.ID(),
		Key:       s.ID().String(),
		Type:      MessageTypeShipmentEvent,
		Payload:   payload,
		CreatedAt: e.CreatedAt(),
	}, nil
}

func fromMessage(m ports.OutboxMessage) MessageDTO {
	return MessageDTO{
		ID:        m.ID.Bytes(),
		Key:       m.Key,
		Type:      m.Type,
		Payload:   m.Payload,
		CreatedAt: m.CreatedAt,
	}
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		ID:        id,
		Key:       dto.Key,
		Type:      dto.Type,
		Payload:   dto.Payload,
		CreatedAt: dto.CreatedAt,
	}, nil
}
