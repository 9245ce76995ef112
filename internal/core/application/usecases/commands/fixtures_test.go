package commands_test

import (
	"testing"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustEmail(t *testing.T, raw string) kernel.Email {
	t.Helper()
	e, err := kernel.NewEmail(raw)
	require.NoError(t, err)
	return e
}

func newSeller(t *testing.T, zip int) *seller.Seller {
	t.Helper()
	s, err := seller.RestoreSeller(kernel.NewUUID(), "Acme", mustEmail(t, "shop@acme.io"), true, "hash", "1 Main St", kernel.MustZipCode(zip))
	require.NoError(t, err)
	return s
}

func newPartner(t *testing.T, capacity, active int, zips ...int) *partner.DeliveryPartner {
	t.Helper()
	zz, err := kernel.NewZipCodes(zips)
	require.NoError(t, err)
	p, err := partner.RestoreDeliveryPartner(kernel.NewUUID(), "Swift", mustEmail(t, "swift@carrier.io"), true, "hash", zz, capacity, active)
	require.NoError(t, err)
	return p
}

func details(t *testing.T, destination int) shipment.Details {
	t.Helper()
	return shipment.Details{
		Content:     "Books",
		Weight:      decimal.RequireFromString("1.5"),
		Destination: kernel.MustZipCode(destination),
		ClientEmail: mustEmail(t, "client@mail.io"),
	}
}

// persistedShipment returns a shipment as a repository would load it: no pending events.
func persistedShipment(t *testing.T, sellerID, partnerID kernel.UUID) *shipment.Shipment {
	t.Helper()
	s, err := shipment.NewShipment(kernel.NewUUID(), details(t, 10001), sellerID, kernel.MustZipCode(10001),
		partnerID, "Swift", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	s.MarkEventsPersisted()
	return s
}

func statusPtr(s shipment.Status) *shipment.Status {
	return &s
}
