package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained from it share the
// transaction started by Begin. Commit also writes the outbox messages of every shipment
// event persisted through the shipment repository.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	ShipmentRepository() ShipmentRepository
	PartnerRepository() PartnerRepository
	SellerRepository() SellerRepository
	TagRepository() TagRepository
	ReviewRepository() ReviewRepository
}
