package sellerrepo

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSellerRepository implements SellerRepository using GORM.
type GormSellerRepository struct {
	db *gorm.DB
}

func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// Add saves a new seller to the database.
func (r *GormSellerRepository) Add(ctx context.Context, aggregate *seller.Seller) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Update saves an existing seller to the database.
func (r *GormSellerRepository) Update(ctx context.Context, aggregate *seller.Seller) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SellerDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"name":           dto.Name,
		"email_verified": dto.EmailVerified,
		"password_hash":  dto.PasswordHash,
		"address":        dto.Address,
		"zip_code":       dto.ZipCode,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("seller", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a seller by ID.
func (r *GormSellerRepository) Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, "seller", id.String(), "id = ?", id.Bytes())
}

// GetByEmail retrieves a seller by login e-mail.
func (r *GormSellerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*seller.Seller, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, "seller", email.String(), "email = ?", email.String())
}

func (r *GormSellerRepository) first(ctx context.Context, param, key string, query string, arg any) (*seller.Seller, error) {
	var dto SellerDTO
	if err := r.db.WithContext(ctx).First(&dto, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, key)
		}
		return nil, err
	}

	return toDomain(dto)
}
