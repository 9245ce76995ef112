package services

import (
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
)

// Role is the kind of account behind a principal.
type Role string

const (
	RoleSeller  Role = "seller"
	RolePartner Role = "partner"
)

// Principal is the authenticated caller of a shipment operation.
type Principal struct {
	ID   kernel.UUID
	Role Role
}

// NewSellerPrincipal is a shorthand for a seller principal.
func NewSellerPrincipal(id kernel.UUID) Principal {
	return Principal{ID: id, Role: RoleSeller}
}

// NewPartnerPrincipal is a shorthand for a partner principal.
func NewPartnerPrincipal(id kernel.UUID) Principal {
	return Principal{ID: id, Role: RolePartner}
}

// Action is a mutating shipment operation subject to ownership rules.
type Action string

const (
	ActionCreate         Action = "create shipment"
	ActionAdvance        Action = "update shipment"
	ActionAdvancePartial Action = "partially update shipment"
	ActionCancel         Action = "cancel shipment"
	ActionDelete         Action = "delete shipment"
	ActionAddTag         Action = "add shipment tag"
	ActionRemoveTag      Action = "remove shipment tag"
)

// AuthorizationGate decides whether a principal may perform an action on a shipment.
//
// Rules:
//   - create: any seller
//   - cancel, delete, addTag, removeTag: the seller owning the shipment
//   - advance, advancePartial: the partner assigned to the shipment
//
// Violations return errs.ErrClientNotAuthorized.
type AuthorizationGate struct{}

func NewAuthorizationGate() AuthorizationGate {
	return AuthorizationGate{}
}

// Authorize checks p against action on target. target is ignored (and may be nil) for ActionCreate.
func (g AuthorizationGate) Authorize(p Principal, action Action, target *shipment.Shipment) error {
	if err := p.ID.Validate(); err != nil {
		return errs.NewClientNotAuthorizedErrorWithCause(string(action), err)
	}

	switch action {
	case ActionCreate:
		if p.Role == RoleSeller {
			return nil
		}
	case ActionCancel, ActionDelete, ActionAddTag, ActionRemoveTag:
		if err := target.Validate(); err != nil {
			return err
		}
		if p.Role == RoleSeller && target.SellerID().IsEqual(p.ID) {
			return nil
		}
	case ActionAdvance, ActionAdvancePartial:
		if err := target.Validate(); err != nil {
			return err
		}
		if p.Role == RolePartner && target.DeliveryPartnerID().IsEqual(p.ID) {
			return nil
		}
	}

	return errs.NewClientNotAuthorizedError(string(action))
}
