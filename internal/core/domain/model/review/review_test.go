package review_test

import (
	"strings"
	"testing"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/review"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	now := time.Now()

	t.Run("should accept every rating from 1 to 5", func(t *testing.T) {
		for rating := review.RatingMin; rating <= review.RatingMax; rating++ {
			r, err := review.NewReview(kernel.NewUUID(), kernel.NewUUID(), rating, nil, now)

			require.NoError(t, err)
			assert.Equal(t, rating, r.Rating())
			assert.Nil(t, r.Comment())
		}
	})

	t.Run("should reject ratings outside 1..5", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := review.NewReview(kernel.NewUUID(), kernel.NewUUID(), rating, nil, now)

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should trim the comment and drop blank ones", func(t *testing.T) {
		comment := "  quick delivery  "
		r, err := review.NewReview(kernel.NewUUID(), kernel.NewUUID(), 5, &comment, now)
		require.NoError(t, err)
		assert.Equal(t, "quick delivery", *r.Comment())

		blank := "   "
		r, err = review.NewReview(kernel.NewUUID(), kernel.NewUUID(), 5, &blank, now)
		require.NoError(t, err)
		assert.Nil(t, r.Comment())
	})

	t.Run("should reject overly long comments", func(t *testing.T) {
		long := strings.Repeat("a", 1001)

		_, err := review.NewReview(kernel.NewUUID(), kernel.NewUUID(), 4, &long, now)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should require identifiers", func(t *testing.T) {
		_, err := review.NewReview(kernel.UUID{}, kernel.UUID{}, 3, nil, now)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}
