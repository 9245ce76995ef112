package queries_test

import (
	"testing"
	"time"

	postgres_adapter "fastship/internal/adapters/out/postgres"
	"fastship/internal/adapters/out/postgres/pgtest"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// world is a migrated database with one seller and one partner serving 10001.
type world struct {
	db      *gorm.DB
	factory ports.UnitOfWorkFactory
	seller  *seller.Seller
	partner *partner.DeliveryPartner
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := pgtest.SQLite(t)
	w := &world{db: db, factory: postgres_adapter.NewGormUnitOfWorkFactory(db)}

	sellerEmail, err := kernel.NewEmail("acme@shop.io")
	require.NoError(t, err)
	w.seller, err = seller.NewSeller(kernel.NewUUID(), "Acme", sellerEmail, "hash", "1 Main St", kernel.MustZipCode(20002))
	require.NoError(t, err)

	partnerEmail, err := kernel.NewEmail("swift@carrier.io")
	require.NoError(t, err)
	zips, err := kernel.NewZipCodes([]int{10002, 10001})
	require.NoError(t, err)
	w.partner, err = partner.NewDeliveryPartner(kernel.NewUUID(), "Swift", partnerEmail, "hash", zips, 5)
	require.NoError(t, err)

	uow := w.factory.Create()
	require.NoError(t, uow.SellerRepository().Add(t.Context(), w.seller))
	require.NoError(t, uow.PartnerRepository().Add(t.Context(), w.partner))
	return w
}

// ship stores a new shipment created at the given time.
func (w *world) ship(t *testing.T, content string, createdAt time.Time) *shipment.Shipment {
	t.Helper()
	email, err := kernel.NewEmail("client@mail.io")
	require.NoError(t, err)

	s, err := shipment.NewShipment(kernel.NewUUID(), shipment.Details{
		Content:     content,
		Weight:      decimal.RequireFromString("3.40"),
		Destination: kernel.MustZipCode(10001),
		ClientEmail: email,
	}, w.seller.ID(), w.seller.ZipCode(), w.partner.ID(), w.partner.Name(), createdAt)
	require.NoError(t, err)

	w.save(t, func(uow ports.UnitOfWork) error { return uow.ShipmentRepository().Add(t.Context(), s) })
	return s
}

func (w *world) save(t *testing.T, fn func(uow ports.UnitOfWork) error) {
	t.Helper()
	uow := w.factory.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, fn(uow))
	require.NoError(t, uow.Commit(t.Context()))
}
