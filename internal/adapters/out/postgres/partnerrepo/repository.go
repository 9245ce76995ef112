package partnerrepo

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartnerRepository implements PartnerRepository using GORM.
type GormPartnerRepository struct {
	db *gorm.DB
}

func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// Add saves a new partner together with its zip codes.
func (r *GormPartnerRepository) Add(ctx context.Context, aggregate *partner.DeliveryPartner) error {
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

// Update saves profile fields and replaces the zip code links.
// The active shipment counter is left alone.
func (r *GormPartnerRepository) Update(ctx context.Context, aggregate *partner.DeliveryPartner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&DeliveryPartnerDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"name":                  dto.Name,
		"email_verified":        dto.EmailVerified,
		"password_hash":         dto.PasswordHash,
		"max_handling_capacity": dto.MaxHandlingCapacity,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery partner", aggregate.ID().String())
	}

	if err := db.Where("partner_id = ?", dto.ID).Delete(&ZipCodeDTO{}).Error; err != nil {
		return err
	}
	return db.Create(&dto.ZipCodes).Error
}

// Get retrieves a partner by ID.
func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, id.String(), "id = ?", id.Bytes())
}

// GetByEmail retrieves a partner by login e-mail.
func (r *GormPartnerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*partner.DeliveryPartner, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, email.String(), "email = ?", email.String())
}

// ListServingZip retrieves the partners covering zip in ascending id order.
func (r *GormPartnerRepository) ListServingZip(ctx context.Context, zip kernel.ZipCode) ([]*partner.DeliveryPartner, error) {
	if err := zip.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	serving := db.Model(&ZipCodeDTO{}).Select("partner_id").Where("zip_code = ?", zip.Int())

	var dtos []DeliveryPartnerDTO
	if err := db.Preload("ZipCodes").Where("id IN (?)", serving).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	partners := make([]*partner.DeliveryPartner, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, nil
}

// Claim increments the counter only while it is below the maximum.
func (r *GormPartnerRepository) Claim(ctx context.Context, id kernel.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&DeliveryPartnerDTO{}).
		Where("id = ? AND active_shipments < max_handling_capacity", id.Bytes()).
		UpdateColumn("active_shipments", gorm.Expr("active_shipments + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Release decrements the counter, never below zero.
func (r *GormPartnerRepository) Release(ctx context.Context, id kernel.UUID) error {
	return r.db.WithContext(ctx).Model(&DeliveryPartnerDTO{}).
		Where("id = ? AND active_shipments > 0", id.Bytes()).
		UpdateColumn("active_shipments", gorm.Expr("active_shipments - 1")).Error
}

// Reclaim increments the counter unconditionally.
func (r *GormPartnerRepository) Reclaim(ctx context.Context, id kernel.UUID) error {
	return r.db.WithContext(ctx).Model(&DeliveryPartnerDTO{}).
		Where("id = ?", id.Bytes()).
		UpdateColumn("active_shipments", gorm.Expr("active_shipments + 1")).Error
}

// ReconcileActiveCounts resets every counter that drifted from the number of the
// partner's shipments in an active status.
func (r *GormPartnerRepository) ReconcileActiveCounts(ctx context.Context) (int64, error) {
	active := activeStatuses()
	result := r.db.WithContext(ctx).Exec(`
		UPDATE delivery_partners
		SET active_shipments = (
			SELECT COUNT(*) FROM shipments s
			WHERE s.delivery_partner_id = delivery_partners.id AND s.status IN ?
		)
		WHERE active_shipments <> (
			SELECT COUNT(*) FROM shipments s
			WHERE s.delivery_partner_id = delivery_partners.id AND s.status IN ?
		)
	`, active, active)
	return result.RowsAffected, result.Error
}

func (r *GormPartnerRepository) first(ctx context.Context, key string, query string, arg any) (*partner.DeliveryPartner, error) {
	var dto DeliveryPartnerDTO
	err := r.db.WithContext(ctx).Preload("ZipCodes", func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "zip_code"}})
	}).First(&dto, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery partner", key)
		}
		return nil, err
	}

	return toDomain(dto)
}

func activeStatuses() []string {
	statuses := make([]string, 0, len(shipment.Statuses()))
	for _, s := range shipment.Statuses() {
		if s.IsActive() {
			statuses = append(statuses, string(s))
		}
	}
	return statuses
}
