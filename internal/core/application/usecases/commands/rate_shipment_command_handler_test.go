package commands_test

import (
	"testing"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/review"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRateShipmentCommandHandler_Handle(t *testing.T) {
	setup := func() (*MockUoW, *MockShipmentRepository, *MockReviewRepository, *MockURLTokens, commands.RateShipmentCommandHandler) {
		uow := new(MockUoW)
		shipments := new(MockShipmentRepository)
		reviews := new(MockReviewRepository)
		tokens := new(MockURLTokens)
		uow.On("ShipmentRepository").Return(shipments).Maybe()
		uow.On("ReviewRepository").Return(reviews).Maybe()
		return uow, shipments, reviews, tokens, commands.NewRateShipmentCommandHandler(mockFactory{uow}.review(), tokens)
	}

	t.Run("should store the review for the shipment named by the token", func(t *testing.T) {
		uow, shipments, reviews, tokens, handler := setup()
		s := persistedShipment(t, kernel.NewUUID(), kernel.NewUUID())
		comment := "fast and careful"
		cmd, err := commands.NewRateShipmentCommand("signed-token", 5, &comment)
		require.NoError(t, err)

		tokens.On("Decode", "signed-token", ports.SaltShipmentReview).Return(s.ID(), nil).Once()
		expectTx(uow, true)
		shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		reviews.On("Add", mock.Anything, mock.MatchedBy(func(r *review.Review) bool {
			return r.ShipmentID().IsEqual(s.ID()) && r.Rating() == 5
		})).Return(nil).Once()

		require.NoError(t, handler.Handle(t.Context(), cmd))
		require.NotNil(t, s.Review())
		assert.Equal(t, comment, *s.Review().Comment())
		reviews.AssertExpectations(t)
	})

	t.Run("should reject a second review", func(t *testing.T) {
		uow, shipments, reviews, tokens, handler := setup()
		s := persistedShipment(t, kernel.NewUUID(), kernel.NewUUID())
		first, err := review.NewReview(kernel.NewUUID(), s.ID(), 4, nil, s.CreatedAt())
		require.NoError(t, err)
		require.NoError(t, s.Rate(first))
		cmd, _ := commands.NewRateShipmentCommand("signed-token", 1, nil)

		tokens.On("Decode", "signed-token", ports.SaltShipmentReview).Return(s.ID(), nil).Once()
		expectTx(uow, false)
		shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

		err = handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, shipment.ErrShipmentAlreadyReviewed)
		reviews.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("should reject a rating outside the range before opening a transaction", func(t *testing.T) {
		uow, _, _, tokens, handler := setup()
		id := kernel.NewUUID()
		cmd, _ := commands.NewRateShipmentCommand("signed-token", 6, nil)
		tokens.On("Decode", "signed-token", ports.SaltShipmentReview).Return(id, nil).Once()

		err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should reject a token that does not decode", func(t *testing.T) {
		uow, _, _, tokens, handler := setup()
		cmd, _ := commands.NewRateShipmentCommand("forged", 3, nil)
		tokens.On("Decode", "forged", ports.SaltShipmentReview).
			Return(kernel.UUID{}, errs.NewInvalidTokenError(nil)).Once()

		err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrInvalidToken)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should reject an empty token", func(t *testing.T) {
		_, err := commands.NewRateShipmentCommand("  ", 3, nil)

		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})
}
