// Package commands contains the operations that change shipment tracking state.
// Every handler follows the same shape: validate the command, open a unit of work,
// load and mutate aggregates through its repositories, commit, then run
// post-commit side effects (notifications) that can never fail the request.
package commands

import (
	"context"

	"fastship/internal/core/ports"
)

// Unit of Work interfaces give each handler exactly the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	SellerRepoFactory interface {
		SellerRepository() ports.SellerRepository
	}

	TagRepoFactory interface {
		TagRepository() ports.TagRepository
	}

	ReviewRepoFactory interface {
		ReviewRepository() ports.ReviewRepository
	}

	// ShipmentUoW serves the status changing operations: a status change may release
	// or re-take partner capacity in the same transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   s, err := uow.ShipmentRepository().GetForUpdate(ctx, id)
	//   // ... mutate, save, adjust capacity
	//
	//   err = uow.Commit(ctx)
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
		PartnerRepoFactory
	}

	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// CreateShipmentUoW additionally resolves the seller placing the shipment.
	CreateShipmentUoW interface {
		ShipmentUoW
		SellerRepoFactory
	}

	CreateShipmentUoWFactory interface {
		Create() CreateShipmentUoW
	}

	// TaggingUoW manages a shipment's tag set against the tag vocabulary.
	TaggingUoW interface {
		TxManager
		ShipmentRepoFactory
		TagRepoFactory
	}

	TaggingUoWFactory interface {
		Create() TaggingUoW
	}

	// ReviewUoW attaches a customer review to a shipment.
	ReviewUoW interface {
		TxManager
		ShipmentRepoFactory
		ReviewRepoFactory
	}

	ReviewUoWFactory interface {
		Create() ReviewUoW
	}

	// AccountUoW manages seller and partner accounts.
	AccountUoW interface {
		TxManager
		SellerRepoFactory
		PartnerRepoFactory
	}

	AccountUoWFactory interface {
		Create() AccountUoW
	}

	// TagUoW manages the tag vocabulary.
	TagUoW interface {
		TxManager
		TagRepoFactory
	}

	TagUoWFactory interface {
		Create() TagUoW
	}

	// PartnerUoW serves partner maintenance outside of a shipment operation.
	PartnerUoW interface {
		TxManager
		PartnerRepoFactory
	}

	PartnerUoWFactory interface {
		Create() PartnerUoW
	}
)
