package postgres_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	postgres_adapter "fastship/internal/adapters/out/postgres"
	"fastship/internal/adapters/out/postgres/outboxrepo"
	"fastship/internal/adapters/out/postgres/pgtest"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real PostgreSQL
// database, where row locks and concurrent conditional updates behave as in production.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite starts the PostgreSQL container and migrates the schema once for all tests.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Postgres(context.Background())
	suite.container = container
	suite.Require().NoError(err)

	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// TearDownSuite closes the connection and terminates the container.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		if sqlDB, err := suite.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if suite.container != nil {
		_ = suite.container.Terminate(context.Background())
	}
}

// SetupTest gives every test empty tables.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) newPartner(capacity int, served ...int) *partner.DeliveryPartner {
	email, err := kernel.NewEmail(kernel.NewUUID().String() + "@carrier.io")
	suite.Require().NoError(err)
	zips, err := kernel.NewZipCodes(served)
	suite.Require().NoError(err)

	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Swift", email, "hash", zips, capacity)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().PartnerRepository().Add(context.Background(), p))
	return p
}

func (suite *UnitOfWorkIntegrationTestSuite) newShipment(p *partner.DeliveryPartner) *shipment.Shipment {
	email, err := kernel.NewEmail("client@mail.io")
	suite.Require().NoError(err)

	s, err := shipment.NewShipment(kernel.NewUUID(), shipment.Details{
		Content:     "Books",
		Weight:      decimal.RequireFromString("1.50"),
		Destination: kernel.MustZipCode(10001),
		ClientEmail: email,
	}, kernel.NewUUID(), kernel.MustZipCode(20002), p.ID(), p.Name(), time.Now())
	suite.Require().NoError(err)
	return s
}

func (suite *UnitOfWorkIntegrationTestSuite) countRows(table string) int64 {
	var count int64
	suite.Require().NoError(suite.db.Table(table).Count(&count).Error)
	return count
}

// TestUnitOfWorkFactory_Create verifies that every call yields an independent unit of work.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.ShipmentRepository())
	suite.NotNil(uow1.PartnerRepository())
	suite.NotNil(uow1.SellerRepository())
	suite.NotNil(uow1.TagRepository())
	suite.NotNil(uow1.ReviewRepository())
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit and rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

// TestUnitOfWork_TransactionErrors verifies that commit and rollback need an open transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

// TestUnitOfWork_CommitWritesOutbox verifies that the events of saved shipments reach the
// outbox in the same transaction, once each, and stop being reported as new.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitWritesOutbox() {
	ctx := context.Background()
	p := suite.newPartner(3, 10001)
	s := suite.newShipment(p)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ShipmentRepository().Add(ctx, s))

	loc := kernel.MustZipCode(10001)
	_, err := s.Advance(shipment.FullUpdate{
		Status:            shipment.StatusInTransit,
		EstimatedDelivery: time.Now().Add(48 * time.Hour),
		Location:          &loc,
	}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ShipmentRepository().Update(ctx, s))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Empty(s.NewEvents(), "Committed events should no longer be new")
	suite.Equal(int64(2), suite.countRows("shipment_events"))

	pending, err := outboxrepo.NewGormOutboxRepository(suite.db).ListUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)
	suite.Equal(s.ID().String(), pending[0].Key)
	suite.Equal(outboxrepo.MessageTypeShipmentEvent, pending[0].Type)

	var payload outboxrepo.ShipmentEventPayload
	suite.Require().NoError(json.Unmarshal(pending[1].Payload, &payload))
	suite.Equal(string(shipment.StatusInTransit), payload.Status)
	suite.Equal(p.ID().String(), payload.DeliveryPartnerID)

	// saving again without new events adds nothing to the outbox
	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ShipmentRepository().Update(ctx, s))
	suite.Require().NoError(uow.Commit(ctx))
	suite.Equal(int64(2), suite.countRows("outbox_messages"))
}

// TestUnitOfWork_TransactionRollback verifies that a rollback discards rows and outbox state.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	p := suite.newPartner(3, 10001)
	s := suite.newShipment(p)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ShipmentRepository().Add(ctx, s))
	claimed, err := uow.PartnerRepository().Claim(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Require().True(claimed)
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Equal(int64(0), suite.countRows("shipments"))
	suite.Equal(int64(0), suite.countRows("outbox_messages"))
	suite.NotEmpty(s.NewEvents(), "Rolled back events stay new")

	stored, err := suite.factory.Create().PartnerRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(0, stored.ActiveShipmentCount())
}

// TestUnitOfWork_ConcurrentClaim verifies that concurrent transactions cannot overbook a
// partner: with one unit of capacity exactly one claim succeeds.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentClaim() {
	ctx := context.Background()
	p := suite.newPartner(1, 10001)

	const contenders = 8
	results := make(chan bool, contenders)
	var wg sync.WaitGroup
	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				results <- false
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()

			ok, err := uow.PartnerRepository().Claim(ctx, p.ID())
			if err != nil || !ok {
				results <- false
				return
			}
			results <- uow.Commit(ctx) == nil
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for ok := range results {
		if ok {
			winners++
		}
	}
	suite.Equal(1, winners)

	stored, err := suite.factory.Create().PartnerRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(1, stored.ActiveShipmentCount())
}

// TestUnitOfWork_GetForUpdateLocksRow verifies that a second transaction waits for the
// first one to release the shipment row.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetForUpdateLocksRow() {
	ctx := context.Background()
	p := suite.newPartner(3, 10001)
	s := suite.newShipment(p)

	seed := suite.factory.Create()
	suite.Require().NoError(seed.Begin(ctx))
	suite.Require().NoError(seed.ShipmentRepository().Add(ctx, s))
	suite.Require().NoError(seed.Commit(ctx))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	_, err := first.ShipmentRepository().GetForUpdate(ctx, s.ID())
	suite.Require().NoError(err)

	acquired := make(chan struct{})
	go func() {
		second := suite.factory.Create()
		if err := second.Begin(ctx); err != nil {
			close(acquired)
			return
		}
		defer func() { _ = second.Rollback(ctx) }()
		_, _ = second.ShipmentRepository().GetForUpdate(ctx, s.ID())
		close(acquired)
	}()

	select {
	case <-acquired:
		suite.Fail("Second transaction should wait for the row lock")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(first.Rollback(ctx))
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		suite.Fail("Second transaction should acquire the lock after rollback")
	}
}

// TestUnitOfWork_ReconcileActiveCounts verifies that drifted counters are recomputed from
// non-terminal shipments.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ReconcileActiveCounts() {
	ctx := context.Background()
	busy := suite.newPartner(5, 10001)
	idle := suite.newPartner(5, 10001)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	active := suite.newShipment(busy)
	done := suite.newShipment(busy)
	_, err := done.Cancel(time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ShipmentRepository().Add(ctx, active))
	suite.Require().NoError(uow.ShipmentRepository().Add(ctx, done))
	// idle drifted upwards, busy was never counted
	suite.Require().NoError(uow.PartnerRepository().Reclaim(ctx, idle.ID()))
	suite.Require().NoError(uow.PartnerRepository().Reclaim(ctx, idle.ID()))
	suite.Require().NoError(uow.Commit(ctx))

	corrected, err := suite.factory.Create().PartnerRepository().ReconcileActiveCounts(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(2), corrected)

	repo := suite.factory.Create().PartnerRepository()
	gotBusy, err := repo.Get(ctx, busy.ID())
	suite.Require().NoError(err)
	suite.Equal(1, gotBusy.ActiveShipmentCount())
	gotIdle, err := repo.Get(ctx, idle.ID())
	suite.Require().NoError(err)
	suite.Equal(0, gotIdle.ActiveShipmentCount())

	corrected, err = repo.ReconcileActiveCounts(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(0), corrected)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
