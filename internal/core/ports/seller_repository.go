package ports

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/seller"
)

// ErrDuplicateEmail is returned by account repositories when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// SellerRepository persists Seller aggregates.
type SellerRepository interface {
	// Add inserts a new seller. A duplicate email fails with ErrDuplicateEmail.
	Add(ctx context.Context, aggregate *seller.Seller) error
	Update(ctx context.Context, aggregate *seller.Seller) error
	Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error)
	GetByEmail(ctx context.Context, email kernel.Email) (*seller.Seller, error)
}
