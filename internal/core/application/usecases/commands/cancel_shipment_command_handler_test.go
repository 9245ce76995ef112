package commands_test

import (
	"testing"
	"time"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelShipmentCommandHandler_Handle(t *testing.T) {
	t.Run("should cancel for the owning seller and release capacity", func(t *testing.T) {
		f := newLifecycleFixture()
		sellerID, partnerID := kernel.NewUUID(), kernel.NewUUID()
		s := persistedShipment(t, sellerID, partnerID)
		cmd, err := commands.NewCancelShipmentCommand(s.ID(), sellerID)
		require.NoError(t, err)

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()
		f.partners.On("Release", mock.Anything, partnerID).Return(nil).Once()
		f.notifier.On("Notify", mock.Anything,
			ports.ShipmentNotice{ShipmentID: s.ID(), Status: shipment.StatusCancelled}).Once()

		err = commands.NewCancelShipmentCommandHandler(f.factory, f.notifier).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, shipment.StatusCancelled, s.Status())
		assert.Equal(t, "cancelled by seller", s.LatestEvent().Description())
		f.partners.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("should cancel when the latest event was stamped by a clock running ahead", func(t *testing.T) {
		f := newLifecycleFixture()
		sellerID, partnerID := kernel.NewUUID(), kernel.NewUUID()
		s := persistedShipment(t, sellerID, partnerID)
		_, err := s.AdvancePartial(shipment.PartialUpdate{Status: statusPtr(shipment.StatusInTransit)}, time.Now().Add(time.Minute))
		require.NoError(t, err)
		s.MarkEventsPersisted()
		cmd, _ := commands.NewCancelShipmentCommand(s.ID(), sellerID)

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()
		f.partners.On("Release", mock.Anything, partnerID).Return(nil).Once()
		f.notifier.On("Notify", mock.Anything, mock.Anything).Once()

		require.NoError(t, commands.NewCancelShipmentCommandHandler(f.factory, f.notifier).Handle(t.Context(), cmd))
		assert.Equal(t, shipment.StatusCancelled, s.Status())
		f.partners.AssertExpectations(t)
	})

	t.Run("should cancel a delivered shipment without touching capacity", func(t *testing.T) {
		f := newLifecycleFixture()
		sellerID := kernel.NewUUID()
		s := persistedShipment(t, sellerID, kernel.NewUUID())
		_, err := s.Advance(shipment.FullUpdate{Status: shipment.StatusDelivered, EstimatedDelivery: time.Now()},
			time.Now().Add(-time.Minute))
		require.NoError(t, err)
		s.MarkEventsPersisted()
		cmd, _ := commands.NewCancelShipmentCommand(s.ID(), sellerID)

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()
		f.notifier.On("Notify", mock.Anything, mock.Anything).Once()

		require.NoError(t, commands.NewCancelShipmentCommandHandler(f.factory, f.notifier).Handle(t.Context(), cmd))
		assert.Equal(t, shipment.StatusCancelled, s.Status())
		f.partners.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("should refuse another seller", func(t *testing.T) {
		f := newLifecycleFixture()
		s := persistedShipment(t, kernel.NewUUID(), kernel.NewUUID())
		cmd, _ := commands.NewCancelShipmentCommand(s.ID(), kernel.NewUUID())

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

		err := commands.NewCancelShipmentCommandHandler(f.factory, f.notifier).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrClientNotAuthorized)
		assert.Equal(t, shipment.StatusPlaced, s.Status())
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("should return not found for a missing shipment", func(t *testing.T) {
		f := newLifecycleFixture()
		id := kernel.NewUUID()
		cmd, _ := commands.NewCancelShipmentCommand(id, kernel.NewUUID())

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, id).
			Return(nil, errs.NewObjectNotFoundError("shipment", id)).Once()

		err := commands.NewCancelShipmentCommandHandler(f.factory, f.notifier).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestDeleteShipmentCommandHandler_Handle(t *testing.T) {
	t.Run("should delete an active shipment and give the capacity back", func(t *testing.T) {
		f := newLifecycleFixture()
		sellerID, partnerID := kernel.NewUUID(), kernel.NewUUID()
		s := persistedShipment(t, sellerID, partnerID)
		cmd, err := commands.NewDeleteShipmentCommand(s.ID(), sellerID)
		require.NoError(t, err)

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.partners.On("Release", mock.Anything, partnerID).Return(nil).Once()
		f.shipments.On("Delete", mock.Anything, s.ID()).Return(nil).Once()

		require.NoError(t, commands.NewDeleteShipmentCommandHandler(f.factory).Handle(t.Context(), cmd))
		f.shipments.AssertExpectations(t)
		f.partners.AssertExpectations(t)
	})

	t.Run("should delete a cancelled shipment without releasing", func(t *testing.T) {
		f := newLifecycleFixture()
		sellerID := kernel.NewUUID()
		s := persistedShipment(t, sellerID, kernel.NewUUID())
		_, err := s.Cancel(time.Now())
		require.NoError(t, err)
		cmd, _ := commands.NewDeleteShipmentCommand(s.ID(), sellerID)

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.shipments.On("Delete", mock.Anything, s.ID()).Return(nil).Once()

		require.NoError(t, commands.NewDeleteShipmentCommandHandler(f.factory).Handle(t.Context(), cmd))
		f.partners.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("should refuse another seller", func(t *testing.T) {
		f := newLifecycleFixture()
		s := persistedShipment(t, kernel.NewUUID(), kernel.NewUUID())
		cmd, _ := commands.NewDeleteShipmentCommand(s.ID(), kernel.NewUUID())

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

		err := commands.NewDeleteShipmentCommandHandler(f.factory).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrClientNotAuthorized)
		f.shipments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
