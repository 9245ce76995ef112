package queries

import (
	"context"

	"fastship/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListPartnersQueryHandler reads partners and their serviceable zip codes in one pass over
// a LEFT JOIN, grouping the zip rows per partner.
type ListPartnersQueryHandler struct {
	db *gorm.DB
}

func NewListPartnersQueryHandler(db *gorm.DB) ListPartnersQueryHandler {
	return ListPartnersQueryHandler{db: db}
}

// Handle returns the partners ordered by name, then id.
func (h ListPartnersQueryHandler) Handle(
	ctx context.Context,
	query ListPartnersQuery,
) ([]ListPartnersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			dp.id,
			dp.name,
			dp.max_handling_capacity,
			dp.active_shipments,
			z.zip_code
		FROM delivery_partners dp
		LEFT JOIN delivery_partner_zip_codes z ON z.partner_id = dp.id
		ORDER BY dp.name, dp.id, z.zip_code
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := make([]ListPartnersQueryResponse, 0)
	for rows.Next() {
		var (
			id       uuid.UUID
			name     string
			capacity int
			active   int
			zip      *int
		)
		if err = rows.Scan(&id, &name, &capacity, &active, &zip); err != nil {
			return nil, err
		}

		partnerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		n := len(partners)
		if n == 0 || !partners[n-1].ID.IsEqual(partnerID) {
			partners = append(partners, ListPartnersQueryResponse{
				ID:                  partnerID,
				Name:                name,
				ServiceableZipCodes: make([]kernel.ZipCode, 0),
				MaxHandlingCapacity: capacity,
				ActiveShipments:     active,
				ResidualCapacity:    capacity - active,
			})
			n++
		}

		if zip != nil {
			zipCode, zipErr := kernel.NewZipCode(*zip)
			if zipErr != nil {
				return nil, zipErr
			}
			partners[n-1].ServiceableZipCodes = append(partners[n-1].ServiceableZipCodes, zipCode)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return partners, nil
}
