package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/model/tag"
	"fastship/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetShipmentQueryHandler reads a shipment view straight from the tables, without
// rehydrating the aggregate.
type GetShipmentQueryHandler struct {
	db *gorm.DB
}

// NewGetShipmentQueryHandler creates a handler for single shipment queries.
func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

// Handle returns the shipment view or errs.ErrObjectNotFound.
func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (GetShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShipmentQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	view, err := h.shipment(db, query.ID())
	if err != nil {
		return GetShipmentQueryResponse{}, err
	}

	if view.Timeline, err = h.timeline(db, query.ID()); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	if n := len(view.Timeline); n > 0 {
		view.Status = view.Timeline[n-1].Status
	}

	if view.Tags, err = h.tags(db, query.ID()); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	if view.Review, err = h.review(db, query.ID()); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	return view, nil
}

func (h GetShipmentQueryHandler) shipment(db *gorm.DB, id kernel.UUID) (GetShipmentQueryResponse, error) {
	var (
		view                 GetShipmentQueryResponse
		shipmentID, sellerID uuid.UUID
		partnerID            uuid.UUID
		weight               decimal.Decimal
		destination, origin  int
		status               string
		sellerName           sql.NullString
		partnerName          sql.NullString
	)

	row := db.Raw(`
		SELECT
			s.id,
			s.content,
			s.weight,
			s.destination_zip,
			s.client_email,
			s.client_phone,
			s.status,
			s.created_at,
			s.estimated_delivery,
			s.seller_id,
			sl.name,
			COALESCE(sl.zip_code, 0),
			s.delivery_partner_id,
			dp.name
		FROM shipments s
		LEFT JOIN sellers sl ON sl.id = s.seller_id
		LEFT JOIN delivery_partners dp ON dp.id = s.delivery_partner_id
		WHERE s.id = ?
	`, id.Bytes()).Row()

	err := row.Scan(
		&shipmentID,
		&view.Content,
		&weight,
		&destination,
		&view.ClientEmail,
		&view.ClientPhone,
		&status,
		&view.CreatedAt,
		&view.EstimatedDelivery,
		&sellerID,
		&sellerName,
		&origin,
		&partnerID,
		&partnerName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetShipmentQueryResponse{}, errs.NewObjectNotFoundError("shipment", id)
	}
	if err != nil {
		return GetShipmentQueryResponse{}, err
	}

	view.ID = id
	view.Weight = weight
	view.Status = shipment.Status(status)
	if view.Destination, err = kernel.NewZipCode(destination); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	if origin != 0 {
		if view.SellerZipCode, err = kernel.NewZipCode(origin); err != nil {
			return GetShipmentQueryResponse{}, err
		}
	}
	if view.Seller.ID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	if view.DeliveryPartner.ID, err = kernel.UUIDFromBytes(partnerID[:]); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	view.Seller.Name = sellerName.String
	view.DeliveryPartner.Name = partnerName.String
	return view, nil
}

func (h GetShipmentQueryHandler) timeline(db *gorm.DB, id kernel.UUID) ([]ShipmentEventView, error) {
	rows, err := db.Raw(`
		SELECT id, status, location, description, created_at
		FROM shipment_events
		WHERE shipment_id = ?
		ORDER BY created_at, id
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]ShipmentEventView, 0)
	for rows.Next() {
		var (
			eventID  uuid.UUID
			status   string
			location int
			event    ShipmentEventView
		)
		if err = rows.Scan(&eventID, &status, &location, &event.Description, &event.CreatedAt); err != nil {
			return nil, err
		}
		if event.ID, err = kernel.UUIDFromBytes(eventID[:]); err != nil {
			return nil, err
		}
		if event.Location, err = kernel.NewZipCode(location); err != nil {
			return nil, err
		}
		event.Status = shipment.Status(status)
		events = append(events, event)
	}
	return events, rows.Err()
}

func (h GetShipmentQueryHandler) tags(db *gorm.DB, id kernel.UUID) ([]ShipmentTagView, error) {
	rows, err := db.Raw(`
		SELECT t.name, t.instruction
		FROM shipment_tags st
		JOIN tags t ON t.id = st.tag_id
		WHERE st.shipment_id = ?
		ORDER BY t.name
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]ShipmentTagView, 0)
	for rows.Next() {
		var name string
		var view ShipmentTagView
		if err = rows.Scan(&name, &view.Instruction); err != nil {
			return nil, err
		}
		view.Name = tag.Name(name)
		tags = append(tags, view)
	}
	return tags, rows.Err()
}

func (h GetShipmentQueryHandler) review(db *gorm.DB, id kernel.UUID) (*ShipmentReviewView, error) {
	var (
		view      ShipmentReviewView
		createdAt time.Time
	)
	err := db.Raw(`
		SELECT rating, comment, created_at
		FROM reviews
		WHERE shipment_id = ?
	`, id.Bytes()).Row().Scan(&view.Rating, &view.Comment, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	view.CreatedAt = createdAt
	return &view, nil
}
