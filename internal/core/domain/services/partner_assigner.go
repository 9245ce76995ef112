package services

import (
	"errors"
	"sort"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
)

// ErrDeliveryPartnerNotAvailable is returned when no partner serving the destination zip
// code has residual capacity, including when no partner serves it at all.
var ErrDeliveryPartnerNotAvailable = errors.New("delivery partner not available")

// PartnerAssigner selects the delivery partner for a new shipment.
//
// Selection is first-fit: candidates are enumerated in ascending id order and the first one
// that serves the destination and has ResidualCapacity > 0 wins. The choice is advisory;
// the caller must claim the partner's capacity atomically before committing the shipment
// and retry without that partner when the claim fails.
//
// Example usage:
//
//	assigner := services.NewPartnerAssigner()
//	p, err := assigner.Assign(destination, candidates)
//	if errors.Is(err, services.ErrDeliveryPartnerNotAvailable) {
//	    // nobody can take the shipment
//	}
type PartnerAssigner struct{}

// NewPartnerAssigner creates a PartnerAssigner.
func NewPartnerAssigner() PartnerAssigner {
	return PartnerAssigner{}
}

// Assign returns the first candidate, by ascending id, serving destination with residual capacity.
//
// Parameters:
//   - destination: the shipment destination zip code
//   - candidates: partners to consider, usually those returned by the repository zip query
//
// Returns:
//   - *partner.DeliveryPartner: the selected partner (not modified)
//   - error: ErrDeliveryPartnerNotAvailable, or a validation error for a malformed input
func (a PartnerAssigner) Assign(destination kernel.ZipCode, candidates []*partner.DeliveryPartner) (*partner.DeliveryPartner, error) {
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	ordered := make([]*partner.DeliveryPartner, 0, len(candidates))
	for _, p := range candidates {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		ordered = append(ordered, p)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID().Less(ordered[j].ID())
	})

	for _, p := range ordered {
		if p.ServesZip(destination) && p.HasCapacity() {
			return p, nil
		}
	}

	return nil, ErrDeliveryPartnerNotAvailable
}
