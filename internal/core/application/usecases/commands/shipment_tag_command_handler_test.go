package commands_test

import (
	"testing"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/tag"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taggingFixture struct {
	uow       *MockUoW
	shipments *MockShipmentRepository
	tags      *MockTagRepository
}

func newTaggingFixture() taggingFixture {
	f := taggingFixture{uow: new(MockUoW), shipments: new(MockShipmentRepository), tags: new(MockTagRepository)}
	f.uow.On("ShipmentRepository").Return(f.shipments).Maybe()
	f.uow.On("TagRepository").Return(f.tags).Maybe()
	return f
}

func fragileTag(t *testing.T) *tag.Tag {
	t.Helper()
	tg, err := tag.NewTag(kernel.NewUUID(), tag.Fragile, "Handle with care")
	require.NoError(t, err)
	return tg
}

func TestShipmentTagCommandHandlers(t *testing.T) {
	t.Run("should add and then remove a tag", func(t *testing.T) {
		f := newTaggingFixture()
		sellerID := kernel.NewUUID()
		s := persistedShipment(t, sellerID, kernel.NewUUID())
		fragile := fragileTag(t)

		f.uow.On("Begin", mock.Anything).Return(nil).Twice()
		f.uow.On("Commit", mock.Anything).Return(nil).Twice()
		f.uow.On("Rollback", mock.Anything).Return(nil).Twice()
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Twice()
		f.tags.On("GetByName", mock.Anything, tag.Fragile).Return(fragile, nil).Twice()
		f.shipments.On("Update", mock.Anything, s).Return(nil).Twice()

		add, err := commands.NewAddShipmentTagCommand(s.ID(), sellerID, " Fragile ")
		require.NoError(t, err)
		require.NoError(t, commands.NewAddShipmentTagCommandHandler(mockFactory{f.uow}.tagging()).Handle(t.Context(), add))
		assert.True(t, s.HasTag(tag.Fragile))

		remove, err := commands.NewRemoveShipmentTagCommand(s.ID(), sellerID, "fragile")
		require.NoError(t, err)
		require.NoError(t, commands.NewRemoveShipmentTagCommandHandler(mockFactory{f.uow}.tagging()).Handle(t.Context(), remove))
		assert.False(t, s.HasTag(tag.Fragile))

		f.uow.AssertExpectations(t)
		f.shipments.AssertExpectations(t)
	})

	t.Run("should not save when adding a tag already present", func(t *testing.T) {
		f := newTaggingFixture()
		sellerID := kernel.NewUUID()
		s := persistedShipment(t, sellerID, kernel.NewUUID())
		fragile := fragileTag(t)
		_, err := s.AddTag(fragile)
		require.NoError(t, err)

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.tags.On("GetByName", mock.Anything, tag.Fragile).Return(fragile, nil).Once()

		add, _ := commands.NewAddShipmentTagCommand(s.ID(), sellerID, "fragile")
		require.NoError(t, commands.NewAddShipmentTagCommandHandler(mockFactory{f.uow}.tagging()).Handle(t.Context(), add))
		assert.Len(t, s.Tags(), 1)
		f.shipments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should not save when removing a tag that is absent", func(t *testing.T) {
		f := newTaggingFixture()
		sellerID := kernel.NewUUID()
		s := persistedShipment(t, sellerID, kernel.NewUUID())

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()
		f.tags.On("GetByName", mock.Anything, tag.Fragile).Return(fragileTag(t), nil).Once()

		remove, _ := commands.NewRemoveShipmentTagCommand(s.ID(), sellerID, "fragile")
		require.NoError(t, commands.NewRemoveShipmentTagCommandHandler(mockFactory{f.uow}.tagging()).Handle(t.Context(), remove))
		f.shipments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should report an unknown tag name as not found", func(t *testing.T) {
		f := newTaggingFixture()
		sellerID := kernel.NewUUID()
		s := persistedShipment(t, sellerID, kernel.NewUUID())

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

		add, err := commands.NewAddShipmentTagCommand(s.ID(), sellerID, "perishable")
		require.NoError(t, err)
		err = commands.NewAddShipmentTagCommandHandler(mockFactory{f.uow}.tagging()).Handle(t.Context(), add)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		f.tags.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})

	t.Run("should refuse a seller that does not own the shipment", func(t *testing.T) {
		f := newTaggingFixture()
		s := persistedShipment(t, kernel.NewUUID(), kernel.NewUUID())

		expectTx(f.uow, false)
		f.shipments.On("GetForUpdate", mock.Anything, s.ID()).Return(s, nil).Once()

		add, _ := commands.NewAddShipmentTagCommand(s.ID(), kernel.NewUUID(), "fragile")
		err := commands.NewAddShipmentTagCommandHandler(mockFactory{f.uow}.tagging()).Handle(t.Context(), add)

		require.ErrorIs(t, err, errs.ErrClientNotAuthorized)
	})
}
