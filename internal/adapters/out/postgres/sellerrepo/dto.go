// Package sellerrepo persists seller accounts.
package sellerrepo

import (
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/seller"

	"github.com/google/uuid"
)

type SellerDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:100;not null"`
	Email         string    `gorm:"size:255;not null;uniqueIndex"`
	EmailVerified bool      `gorm:"not null"`
	PasswordHash  string    `gorm:"size:255;not null"`
	Address       string    `gorm:"size:255"`
	ZipCode       int       `gorm:"not null"`
}

func (SellerDTO) TableName() string {
	return "sellers"
}

func fromDomain(s *seller.Seller) SellerDTO {
	return SellerDTO{
		ID:            s.ID().Bytes(),
		Name:          s.Name(),
		Email:         s.Email().String(),
		EmailVerified: s.EmailVerified(),
		PasswordHash:  s.PasswordHash(),
		Address:       s.Address(),
		ZipCode:       s.ZipCode().Int(),
	}
}

func toDomain(dto SellerDTO) (*seller.Seller, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	email, err := kernel.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	zip, err := kernel.NewZipCode(dto.ZipCode)
	if err != nil {
		return nil, err
	}
	return seller.RestoreSeller(id, dto.Name, email, dto.EmailVerified, dto.PasswordHash, dto.Address, zip)
}
