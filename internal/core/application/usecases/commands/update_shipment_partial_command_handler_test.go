package commands_test

import (
	"errors"
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
	"go.uber.org/zap"
)

func partialHandler(f lifecycleFixture) commands.UpdateShipmentPartialCommandHandler {
	return commands.NewUpdateShipmentPartialCommandHandler(f.factory, f.codes, f.notifier, zap.NewNop())
}

func TestUpdateShipmentPartialCommandHandler_Handle(t *testing.T) {
	t.Run("should refuse a foreign partner whatever the payload", func(t *testing.T) {
		payloads := map[string]shipment.PartialUpdate{
			"empty":     {},
			"delivered": {Status: statusPtr(shipment.StatusDelivered)},
			"eta only":  {EstimatedDelivery: func() *time.Time { v := time.Now(); return &v }()},
		}

		for name, payload := range payloads {
			t.Run(name, func(t *testing.T) {
				f := newLifecycleFixture()
				s := persistedShipment(t, kernel.NewUUID(), kernel.NewUUID())
				cmd, err := commands.NewUpdateShipmentPartialCommand(s.ID(), kernel.NewUUID(), payload, "123456")
				require.NoError(t, err)

				expectTx(f.uow, false)
				f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

				err = partialHandler(f).Handle(t.Context(), cmd)

				require.ErrorIs(t, err, errs.ErrClientNotAuthorized)
				f.codes.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
				assert.Len(t, s.Timeline(), 1)
			})
		}
	})

	t.Run("should fail with bad request when no field is set", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID, shipment.PartialUpdate{}, "123456")

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

		err := partialHandler(f).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrBadRequest)
	})

	t.Run("should refuse delivery without a code", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID,
			shipment.PartialUpdate{Status: statusPtr(shipment.StatusDelivered)}, "")

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

		err := partialHandler(f).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrClientNotAuthorized)
		assert.Len(t, s.Timeline(), 1)
	})

	t.Run("should refuse delivery with a wrong or expired code", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID,
			shipment.PartialUpdate{Status: statusPtr(shipment.StatusDelivered)}, "000000")

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.codes.On("Consume", mock.Anything, s.ID(), "000000").Return(false, nil).Once()

		err := partialHandler(f).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrClientNotAuthorized)
		assert.Len(t, s.Timeline(), 1)
		f.shipments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should deliver with the right code and append exactly one event", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID,
			shipment.PartialUpdate{Status: statusPtr(shipment.StatusDelivered)}, " 424242 ")

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.codes.On("Consume", mock.Anything, s.ID(), "424242").Return(true, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()
		f.partners.On("Release", mock.Anything, partnerID).Return(nil).Once()
		f.notifier.On("Notify", mock.Anything,
			ports.ShipmentNotice{ShipmentID: s.ID(), Status: shipment.StatusDelivered}).Once()

		err := partialHandler(f).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Len(t, s.Timeline(), 2)
		assert.Equal(t, shipment.StatusDelivered, s.Status())
		f.codes.AssertExpectations(t)
		f.partners.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("should reach delivered when the timeline is ahead of the local clock", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		_, err := s.AdvancePartial(shipment.PartialUpdate{Status: statusPtr(shipment.StatusOutForDelivery)},
			time.Now().Add(time.Minute))
		require.NoError(t, err)
		s.MarkEventsPersisted()
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID,
			shipment.PartialUpdate{Status: statusPtr(shipment.StatusDelivered)}, "424242")

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.codes.On("Consume", mock.Anything, s.ID(), "424242").Return(true, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()
		f.partners.On("Release", mock.Anything, partnerID).Return(nil).Once()
		f.notifier.On("Notify", mock.Anything, mock.Anything).Once()

		require.NoError(t, partialHandler(f).Handle(t.Context(), cmd))
		assert.Equal(t, shipment.StatusDelivered, s.Status())
		assert.Equal(t, shipment.StatusDelivered, s.LatestEvent().Status())
	})

	t.Run("should put the code back when the commit fails", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID,
			shipment.PartialUpdate{Status: statusPtr(shipment.StatusDelivered)}, "424242")

		f.uow.On("Begin", mock.Anything).Return(nil).Once()
		f.uow.On("Commit", mock.Anything).Return(errors.New("commit error")).Once()
		f.uow.On("Rollback", mock.Anything).Return(nil).Once()
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.codes.On("Consume", mock.Anything, s.ID(), "424242").Return(true, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()
		f.partners.On("Release", mock.Anything, partnerID).Return(nil).Once()
		f.codes.On("Put", mock.Anything, s.ID(), "424242").Return(nil).Once()

		err := partialHandler(f).Handle(t.Context(), cmd)

		require.Error(t, err)
		f.codes.AssertExpectations(t)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("should move the ETA without appending an event", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		eta := time.Now().Add(72 * time.Hour).UTC()
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID,
			shipment.PartialUpdate{EstimatedDelivery: &eta}, "")

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()

		err := partialHandler(f).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Len(t, s.Timeline(), 1)
		assert.Equal(t, eta, s.EstimatedDelivery())
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("should not consult the code store for other statuses", func(t *testing.T) {
		f := newLifecycleFixture()
		partnerID := kernel.NewUUID()
		s := persistedShipment(t, kernel.NewUUID(), partnerID)
		loc := kernel.MustZipCode(20002)
		cmd, _ := commands.NewUpdateShipmentPartialCommand(s.ID(), partnerID,
			shipment.PartialUpdate{Status: statusPtr(shipment.StatusInTransit), Location: &loc}, "")

		expectTx(f.uow, true)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Once()
		f.notifier.On("Notify", mock.Anything, mock.Anything).Once()

		require.NoError(t, partialHandler(f).Handle(t.Context(), cmd))
		f.codes.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, 20002, s.LatestEvent().Location().Int())
	})
}
