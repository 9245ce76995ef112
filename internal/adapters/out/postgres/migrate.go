package postgres

import (
	"fastship/internal/adapters/out/postgres/outboxrepo"
	"fastship/internal/adapters/out/postgres/partnerrepo"
	"fastship/internal/adapters/out/postgres/reviewrepo"
	"fastship/internal/adapters/out/postgres/sellerrepo"
	"fastship/internal/adapters/out/postgres/shipmentrepo"
	"fastship/internal/adapters/out/postgres/tagrepo"

	"gorm.io/gorm"
)

// Models lists every table of the service in creation order.
func Models() []any {
	return []any{
		&sellerrepo.SellerDTO{},
		&partnerrepo.DeliveryPartnerDTO{},
		&partnerrepo.ZipCodeDTO{},
		&tagrepo.TagDTO{},
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.EventDTO{},
		&shipmentrepo.ShipmentTagDTO{},
		&reviewrepo.ReviewDTO{},
		&outboxrepo.MessageDTO{},
	}
}

// Migrate creates or alters the tables to match the DTOs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
