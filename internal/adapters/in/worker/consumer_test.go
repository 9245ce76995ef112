package worker_test

import (
	"context"
	"errors"
	"testing"

	"fastship/internal/adapters/in/worker"
	"fastship/internal/adapters/out/queue"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNoticeHandler struct{ mock.Mock }

func (m *MockNoticeHandler) Handle(ctx context.Context, notice ports.ShipmentNotice) {
	m.Called(ctx, notice)
}

func TestConsumer_ShipmentNotify(t *testing.T) {
	t.Run("should pass the decoded notice to the handler", func(t *testing.T) {
		handler := new(MockNoticeHandler)
		notice := ports.ShipmentNotice{ShipmentID: kernel.NewUUID(), Status: shipment.StatusDelivered}
		handler.On("Handle", mock.Anything, notice).Once()
		task, err := queue.NewShipmentNotifyTask(notice)
		require.NoError(t, err)

		err = worker.NewConsumer(handler, zap.NewNop()).NewServeMux().ProcessTask(t.Context(), task)

		require.NoError(t, err)
		handler.AssertExpectations(t)
	})

	t.Run("should not retry a malformed payload", func(t *testing.T) {
		handler := new(MockNoticeHandler)
		task := asynq.NewTask(queue.TaskShipmentNotify, []byte(`{"shipment_id":"x"}`))

		err := worker.NewConsumer(handler, zap.NewNop()).NewServeMux().ProcessTask(t.Context(), task)

		require.Error(t, err)
		assert.True(t, errors.Is(err, asynq.SkipRetry))
		handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}
