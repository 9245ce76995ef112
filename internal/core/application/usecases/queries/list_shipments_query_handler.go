package queries

import (
	"context"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListShipmentsQueryHandler reads shipment summaries using the status denormalized on the
// shipment row.
type ListShipmentsQueryHandler struct {
	db *gorm.DB
}

func NewListShipmentsQueryHandler(db *gorm.DB) ListShipmentsQueryHandler {
	return ListShipmentsQueryHandler{db: db}
}

// Handle returns the requested page ordered by creation time, newest first. A page past the
// end is empty but still reports the total.
func (h ListShipmentsQueryHandler) Handle(
	ctx context.Context,
	query ListShipmentsQuery,
) (ListShipmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListShipmentsQueryResponse{}, err
	}

	response := ListShipmentsQueryResponse{
		Shipments: make([]ShipmentSummary, 0, query.Size()),
		Page:      query.Page(),
		Size:      query.Size(),
	}

	db := h.db.WithContext(ctx)
	if err := db.Raw(`SELECT COUNT(*) FROM shipments`).Row().Scan(&response.Total); err != nil {
		return ListShipmentsQueryResponse{}, err
	}

	rows, err := db.Raw(`
		SELECT
			id,
			content,
			weight,
			destination_zip,
			status,
			created_at,
			estimated_delivery,
			seller_id,
			delivery_partner_id
		FROM shipments
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, query.Size(), query.offset()).Rows()
	if err != nil {
		return ListShipmentsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			summary                 ShipmentSummary
			id, sellerID, partnerID uuid.UUID
			destination             int
			status                  string
		)
		err = rows.Scan(
			&id,
			&summary.Content,
			&summary.Weight,
			&destination,
			&status,
			&summary.CreatedAt,
			&summary.EstimatedDelivery,
			&sellerID,
			&partnerID,
		)
		if err != nil {
			return ListShipmentsQueryResponse{}, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return ListShipmentsQueryResponse{}, err
		}
		if summary.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
			return ListShipmentsQueryResponse{}, err
		}
		if summary.DeliveryPartnerID, err = kernel.UUIDFromBytes(partnerID[:]); err != nil {
			return ListShipmentsQueryResponse{}, err
		}
		if summary.Destination, err = kernel.NewZipCode(destination); err != nil {
			return ListShipmentsQueryResponse{}, err
		}
		summary.Status = shipment.Status(status)
		response.Shipments = append(response.Shipments, summary)
	}

	if err = rows.Err(); err != nil {
		return ListShipmentsQueryResponse{}, err
	}
	return response, nil
}
