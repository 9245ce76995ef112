package partnerrepo_test

import (
	"testing"

	"fastship/internal/adapters/out/postgres/partnerrepo"
	"fastship/internal/adapters/out/postgres/pgtest"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartner(t *testing.T, email string, capacity int, zips ...int) *partner.DeliveryPartner {
	t.Helper()
	e, err := kernel.NewEmail(email)
	require.NoError(t, err)
	zz, err := kernel.NewZipCodes(zips)
	require.NoError(t, err)
	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Swift", e, "hash", zz, capacity)
	require.NoError(t, err)
	return p
}

func TestGormPartnerRepository_Accounts(t *testing.T) {
	t.Run("should round-trip a partner with its zip codes", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))
		p := newPartner(t, "swift@carrier.io", 3, 10002, 10001)
		require.NoError(t, repo.Add(t.Context(), p))

		got, err := repo.GetByEmail(t.Context(), p.Email())

		require.NoError(t, err)
		assert.True(t, got.IsEqual(p))
		assert.Equal(t, 3, got.MaxHandlingCapacity())
		assert.Equal(t, 0, got.ActiveShipmentCount())
		require.Len(t, got.ServiceableZipCodes(), 2)
		assert.Equal(t, 10001, got.ServiceableZipCodes()[0].Int())
	})

	t.Run("should refuse a second partner with the same e-mail", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))
		require.NoError(t, repo.Add(t.Context(), newPartner(t, "swift@carrier.io", 3, 10001)))

		err := repo.Add(t.Context(), newPartner(t, "swift@carrier.io", 1, 10002))

		require.ErrorIs(t, err, ports.ErrDuplicateEmail)
	})

	t.Run("should replace zip codes without touching the counter", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))
		p := newPartner(t, "swift@carrier.io", 3, 10001)
		require.NoError(t, repo.Add(t.Context(), p))
		ok, err := repo.Claim(t.Context(), p.ID())
		require.NoError(t, err)
		require.True(t, ok)

		zips := []kernel.ZipCode{kernel.MustZipCode(30003)}
		capacity := 4
		require.NoError(t, p.UpdateCoverage(&zips, &capacity))
		require.NoError(t, repo.Update(t.Context(), p))

		got, err := repo.Get(t.Context(), p.ID())
		require.NoError(t, err)
		assert.Equal(t, 4, got.MaxHandlingCapacity())
		assert.Equal(t, 1, got.ActiveShipmentCount())
		require.Len(t, got.ServiceableZipCodes(), 1)
		assert.Equal(t, 30003, got.ServiceableZipCodes()[0].Int())
	})

	t.Run("should return not found for an unknown id", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))

		_, err := repo.Get(t.Context(), kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestGormPartnerRepository_ListServingZip(t *testing.T) {
	t.Run("should list only partners covering the zip code in id order", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))
		a := newPartner(t, "a@carrier.io", 1, 10001, 10002)
		b := newPartner(t, "b@carrier.io", 1, 10001)
		c := newPartner(t, "c@carrier.io", 1, 20002)
		for _, p := range []*partner.DeliveryPartner{a, b, c} {
			require.NoError(t, repo.Add(t.Context(), p))
		}

		got, err := repo.ListServingZip(t.Context(), kernel.MustZipCode(10001))

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].ID().Less(got[1].ID()))
		for _, p := range got {
			assert.True(t, p.ServesZip(kernel.MustZipCode(10001)))
		}
	})
}

func TestGormPartnerRepository_Capacity(t *testing.T) {
	t.Run("should stop claiming at the maximum and release down to zero", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))
		p := newPartner(t, "swift@carrier.io", 2, 10001)
		require.NoError(t, repo.Add(t.Context(), p))

		for _, want := range []bool{true, true, false} {
			ok, err := repo.Claim(t.Context(), p.ID())
			require.NoError(t, err)
			assert.Equal(t, want, ok)
		}

		for range 3 {
			require.NoError(t, repo.Release(t.Context(), p.ID()))
		}
		got, err := repo.Get(t.Context(), p.ID())
		require.NoError(t, err)
		assert.Equal(t, 0, got.ActiveShipmentCount())
	})

	t.Run("should reclaim beyond the maximum", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))
		p := newPartner(t, "swift@carrier.io", 1, 10001)
		require.NoError(t, repo.Add(t.Context(), p))
		_, err := repo.Claim(t.Context(), p.ID())
		require.NoError(t, err)

		require.NoError(t, repo.Reclaim(t.Context(), p.ID()))

		got, err := repo.Get(t.Context(), p.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, got.ActiveShipmentCount())
		assert.False(t, got.HasCapacity())
	})

	t.Run("should report a claim on an unknown partner as lost", func(t *testing.T) {
		repo := partnerrepo.NewGormPartnerRepository(pgtest.SQLite(t))

		ok, err := repo.Claim(t.Context(), kernel.NewUUID())

		require.NoError(t, err)
		assert.False(t, ok)
	})
}
