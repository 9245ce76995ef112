package queries

import (
	"errors"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/model/tag"
	"fastship/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetShipmentQueryIsNotConstructed = errors.New(
		"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
	)
)

// GetShipmentQuery retrieves the full view of one shipment: its timeline, tags, review and
// the names of the seller and the assigned partner.
//
// Example:
//
//	query, err := NewGetShipmentQuery(id)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown shipment
//	}
type GetShipmentQuery struct {
	id    kernel.UUID
	guard guard.ConstructorGuard
}

// NewGetShipmentQuery creates a query for the shipment with the given id.
func NewGetShipmentQuery(id kernel.UUID) (GetShipmentQuery, error) {
	if err := id.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) ID() kernel.UUID {
	return q.id
}

// Validate ensures the query was created through the constructor.
func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

// PartyView names an account taking part in a shipment.
type PartyView struct {
	ID   kernel.UUID
	Name string
}

// ShipmentEventView is one timeline entry.
type ShipmentEventView struct {
	ID          kernel.UUID
	Status      shipment.Status
	Location    kernel.ZipCode
	Description string
	CreatedAt   time.Time
}

type ShipmentTagView struct {
	Name        tag.Name
	Instruction string
}

type ShipmentReviewView struct {
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

// GetShipmentQueryResponse is the full view of a shipment. Status is the status of the
// latest timeline event; Timeline is in ascending creation order and Tags by name.
type GetShipmentQueryResponse struct {
	ID                kernel.UUID
	Content           string
	Weight            decimal.Decimal
	Destination       kernel.ZipCode
	ClientEmail       string
	ClientPhone       *string
	Status            shipment.Status
	CreatedAt         time.Time
	EstimatedDelivery time.Time
	Seller            PartyView
	SellerZipCode     kernel.ZipCode
	DeliveryPartner   PartyView
	Timeline          []ShipmentEventView
	Tags              []ShipmentTagView
	Review            *ShipmentReviewView
}
