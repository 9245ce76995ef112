// Package partnerrepo persists delivery partners and their serviceable zip codes.
//
// The active shipment counter lives on the partner row and is only changed by single
// conditional UPDATE statements (Claim, Release, Reclaim), so concurrent shipment
// creations can never book a partner beyond its maximum capacity.
package partnerrepo

import (
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

type DeliveryPartnerDTO struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Name                string       `gorm:"size:100;not null"`
	Email               string       `gorm:"size:255;not null;uniqueIndex"`
	EmailVerified       bool         `gorm:"not null"`
	PasswordHash        string       `gorm:"size:255;not null"`
	MaxHandlingCapacity int          `gorm:"not null"`
	ActiveShipments     int          `gorm:"not null"`
	ZipCodes            []ZipCodeDTO `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE"`
}

func (DeliveryPartnerDTO) TableName() string {
	return "delivery_partners"
}

// ZipCodeDTO links a partner to one zip code it serves.
type ZipCodeDTO struct {
	PartnerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ZipCode   int       `gorm:"primaryKey;index"`
}

func (ZipCodeDTO) TableName() string {
	return "delivery_partner_zip_codes"
}

func fromDomain(p *partner.DeliveryPartner) DeliveryPartnerDTO {
	zips := p.ServiceableZipCodes()
	dto := DeliveryPartnerDTO{
		ID:                  p.ID().Bytes(),
		Name:                p.Name(),
		Email:               p.Email().String(),
		EmailVerified:       p.EmailVerified(),
		PasswordHash:        p.PasswordHash(),
		MaxHandlingCapacity: p.MaxHandlingCapacity(),
		ActiveShipments:     p.ActiveShipmentCount(),
		ZipCodes:            make([]ZipCodeDTO, 0, len(zips)),
	}
	for _, z := range zips {
		dto.ZipCodes = append(dto.ZipCodes, ZipCodeDTO{PartnerID: dto.ID, ZipCode: z.Int()})
	}
	return dto
}

func toDomain(dto DeliveryPartnerDTO) (*partner.DeliveryPartner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	email, err := kernel.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}

	raw := make([]int, 0, len(dto.ZipCodes))
	for _, z := range dto.ZipCodes {
		raw = append(raw, z.ZipCode)
	}
	zips, err := kernel.NewZipCodes(raw)
	if err != nil {
		return nil, err
	}

	return partner.RestoreDeliveryPartner(id, dto.Name, email, dto.EmailVerified, dto.PasswordHash,
		zips, dto.MaxHandlingCapacity, dto.ActiveShipments)
}
