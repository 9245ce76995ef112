package queries

import (
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/guard"
)

var (
	ErrListPartnersQueryIsNotConstructed = errors.New(
		"ListPartnersQuery must be created via NewListPartnersQuery constructor",
	)
)

// ListPartnersQuery lists every delivery partner with its coverage and current load.
type ListPartnersQuery struct {
	guard guard.ConstructorGuard
}

func NewListPartnersQuery() ListPartnersQuery {
	return ListPartnersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ListPartnersQuery) Validate() error {
	return q.guard.Validate(ErrListPartnersQueryIsNotConstructed)
}

// ListPartnersQueryResponse describes one partner. ServiceableZipCodes are ascending.
type ListPartnersQueryResponse struct {
	ID                  kernel.UUID
	Name                string
	ServiceableZipCodes []kernel.ZipCode
	MaxHandlingCapacity int
	ActiveShipments     int
	ResidualCapacity    int
}
