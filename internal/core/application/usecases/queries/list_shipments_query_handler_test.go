package queries_test

import (
	"testing"
	"time"

	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListShipmentsQuery(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
	}{
		{"zero page", 0, 10},
		{"zero size", 1, 0},
		{"oversized page", 1, queries.MaxPageSize + 1},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := queries.NewListShipmentsQuery(tt.page, tt.size)

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		})
	}

	t.Run("should require a constructed query", func(t *testing.T) {
		require.ErrorIs(t, queries.ListShipmentsQuery{}.Validate(), queries.ErrListShipmentsQueryIsNotConstructed)
	})
}

func TestListShipmentsQueryHandler_Handle(t *testing.T) {
	t.Run("should page newest first and report the total", func(t *testing.T) {
		w := newWorld(t)
		now := time.Now()
		w.ship(t, "oldest", now.Add(-3*time.Hour))
		w.ship(t, "middle", now.Add(-2*time.Hour))
		w.ship(t, "newest", now.Add(-time.Hour))
		handler := queries.NewListShipmentsQueryHandler(w.db)

		first, err := queries.NewListShipmentsQuery(1, 2)
		require.NoError(t, err)
		page1, err := handler.Handle(t.Context(), first)
		require.NoError(t, err)

		second, err := queries.NewListShipmentsQuery(2, 2)
		require.NoError(t, err)
		page2, err := handler.Handle(t.Context(), second)
		require.NoError(t, err)

		assert.Equal(t, int64(3), page1.Total)
		require.Len(t, page1.Shipments, 2)
		assert.Equal(t, "newest", page1.Shipments[0].Content)
		assert.Equal(t, "middle", page1.Shipments[1].Content)
		assert.Equal(t, shipment.StatusPlaced, page1.Shipments[0].Status)
		assert.True(t, page1.Shipments[0].SellerID.IsEqual(w.seller.ID()))
		assert.True(t, page1.Shipments[0].DeliveryPartnerID.IsEqual(w.partner.ID()))

		require.Len(t, page2.Shipments, 1)
		assert.Equal(t, "oldest", page2.Shipments[0].Content)
		assert.Equal(t, 2, page2.Page)
	})

	t.Run("should return an empty page past the end", func(t *testing.T) {
		w := newWorld(t)
		w.ship(t, "only", time.Now())
		query, err := queries.NewListShipmentsQuery(5, 10)
		require.NoError(t, err)

		page, err := queries.NewListShipmentsQueryHandler(w.db).Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Empty(t, page.Shipments)
		assert.Equal(t, int64(1), page.Total)
	})
}
