package queries

import (
	"errors"
	"math"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrListShipmentsQueryIsNotConstructed = errors.New(
		"ListShipmentsQuery must be created via NewListShipmentsQuery constructor",
	)
)

// ListShipmentsQuery pages through all shipments, newest first.
//
// Example:
//
//	query, err := NewListShipmentsQuery(1, 20)
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d shipments\n", len(page.Shipments), page.Total)
type ListShipmentsQuery struct {
	page  int
	size  int
	guard guard.ConstructorGuard
}

// NewListShipmentsQuery creates a page query. Pages start at 1 and size is limited to
// MaxPageSize.
func NewListShipmentsQuery(page, size int) (ListShipmentsQuery, error) {
	if page < 1 {
		return ListShipmentsQuery{}, errs.NewValueIsOutOfRangeError("page", page, 1, math.MaxInt)
	}
	if size < 1 || size > MaxPageSize {
		return ListShipmentsQuery{}, errs.NewValueIsOutOfRangeError("size", size, 1, MaxPageSize)
	}
	return ListShipmentsQuery{page: page, size: size, guard: guard.NewConstructorGuard()}, nil
}

func (q ListShipmentsQuery) Page() int {
	return q.page
}

func (q ListShipmentsQuery) Size() int {
	return q.size
}

func (q ListShipmentsQuery) offset() int {
	return (q.page - 1) * q.size
}

// Validate ensures the query was created through the constructor.
func (q ListShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrListShipmentsQueryIsNotConstructed)
}

// ShipmentSummary is one row of a shipment listing.
type ShipmentSummary struct {
	ID                kernel.UUID
	Content           string
	Weight            decimal.Decimal
	Destination       kernel.ZipCode
	Status            shipment.Status
	CreatedAt         time.Time
	EstimatedDelivery time.Time
	SellerID          kernel.UUID
	DeliveryPartnerID kernel.UUID
}

// ListShipmentsQueryResponse holds one page and the total number of shipments.
type ListShipmentsQueryResponse struct {
	Shipments []ShipmentSummary
	Page      int
	Size      int
	Total     int64
}
