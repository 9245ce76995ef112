package commands_test

import (
	"context"
	"time"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/review"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/model/tag"
	"fastship/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, p *partner.DeliveryPartner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, p *partner.DeliveryPartner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*partner.DeliveryPartner)
	return p, args.Error(1)
}

func (m *MockPartnerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*partner.DeliveryPartner, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*partner.DeliveryPartner)
	return p, args.Error(1)
}

func (m *MockPartnerRepository) ListServingZip(ctx context.Context, zip kernel.ZipCode) ([]*partner.DeliveryPartner, error) {
	args := m.Called(ctx, zip)
	ps, _ := args.Get(0).([]*partner.DeliveryPartner)
	return ps, args.Error(1)
}

func (m *MockPartnerRepository) Claim(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Release(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPartnerRepository) Reclaim(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPartnerRepository) ReconcileActiveCounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockSellerRepository struct{ mock.Mock }

func (m *MockSellerRepository) Add(ctx context.Context, s *seller.Seller) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSellerRepository) Update(ctx context.Context, s *seller.Seller) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSellerRepository) Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*seller.Seller)
	return s, args.Error(1)
}

func (m *MockSellerRepository) GetByEmail(ctx context.Context, email kernel.Email) (*seller.Seller, error) {
	args := m.Called(ctx, email)
	s, _ := args.Get(0).(*seller.Seller)
	return s, args.Error(1)
}

type MockTagRepository struct{ mock.Mock }

func (m *MockTagRepository) GetByName(ctx context.Context, name tag.Name) (*tag.Tag, error) {
	args := m.Called(ctx, name)
	t, _ := args.Get(0).(*tag.Tag)
	return t, args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context) ([]*tag.Tag, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).([]*tag.Tag)
	return ts, args.Error(1)
}

func (m *MockTagRepository) Add(ctx context.Context, t *tag.Tag) error {
	return m.Called(ctx, t).Error(0)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Add(ctx context.Context, r *review.Review) error {
	return m.Called(ctx, r).Error(0)
}

// MockUoW implements every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	return m.Called().Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	return m.Called().Get(0).(ports.PartnerRepository)
}

func (m *MockUoW) SellerRepository() ports.SellerRepository {
	return m.Called().Get(0).(ports.SellerRepository)
}

func (m *MockUoW) TagRepository() ports.TagRepository {
	return m.Called().Get(0).(ports.TagRepository)
}

func (m *MockUoW) ReviewRepository() ports.ReviewRepository {
	return m.Called().Get(0).(ports.ReviewRepository)
}

// mockFactory hands out the same MockUoW for every unit of work flavour.
type mockFactory struct{ uow *MockUoW }

func (f mockFactory) shipment() commands.ShipmentUoWFactory { return shipmentFactory(f) }
func (f mockFactory) create() commands.CreateShipmentUoWFactory { return createFactory(f) }
func (f mockFactory) tagging() commands.TaggingUoWFactory { return taggingFactory(f) }
func (f mockFactory) review() commands.ReviewUoWFactory { return reviewFactory(f) }
func (f mockFactory) account() commands.AccountUoWFactory { return accountFactory(f) }
func (f mockFactory) tagVocabulary() commands.TagUoWFactory { return tagFactory(f) }
func (f mockFactory) partners() commands.PartnerUoWFactory { return partnerFactory(f) }

type (
	shipmentFactory mockFactory
	createFactory   mockFactory
	taggingFactory  mockFactory
	reviewFactory   mockFactory
	accountFactory  mockFactory
	tagFactory      mockFactory
	partnerFactory  mockFactory
)

func (f shipmentFactory) Create() commands.ShipmentUoW { return f.uow }
func (f createFactory) Create() commands.CreateShipmentUoW { return f.uow }
func (f taggingFactory) Create() commands.TaggingUoW { return f.uow }
func (f reviewFactory) Create() commands.ReviewUoW { return f.uow }
func (f accountFactory) Create() commands.AccountUoW { return f.uow }
func (f tagFactory) Create() commands.TagUoW { return f.uow }
func (f partnerFactory) Create() commands.PartnerUoW { return f.uow }

// expectTx registers Begin, Rollback and, when commit is true, Commit on the uow.
func expectTx(uow *MockUoW, commit bool) {
	uow.On("Begin", mock.Anything).Return(nil).Once()
	if commit {
		uow.On("Commit", mock.Anything).Return(nil).Once()
	}
	uow.On("Rollback", mock.Anything).Return(nil).Once()
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, notice ports.ShipmentNotice) {
	m.Called(ctx, notice)
}

type MockCodeStore struct{ mock.Mock }

func (m *MockCodeStore) Put(ctx context.Context, id kernel.UUID, code string) error {
	return m.Called(ctx, id, code).Error(0)
}

func (m *MockCodeStore) Consume(ctx context.Context, id kernel.UUID, code string) (bool, error) {
	args := m.Called(ctx, id, code)
	return args.Bool(0), args.Error(1)
}

type MockURLTokens struct{ mock.Mock }

func (m *MockURLTokens) Encode(id kernel.UUID, salt string) (string, error) {
	args := m.Called(id, salt)
	return args.String(0), args.Error(1)
}

func (m *MockURLTokens) Decode(token, salt string) (kernel.UUID, error) {
	args := m.Called(token, salt)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockHasher struct{ mock.Mock }

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}

type MockIssuer struct{ mock.Mock }

func (m *MockIssuer) Issue(subject ports.AccessSubject) (ports.AccessToken, error) {
	args := m.Called(subject)
	return args.Get(0).(ports.AccessToken), args.Error(1)
}

func (m *MockIssuer) Parse(token string) (ports.AccessClaims, error) {
	args := m.Called(token)
	return args.Get(0).(ports.AccessClaims), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, mail ports.Mail) error {
	return m.Called(ctx, mail).Error(0)
}

type MockBlacklist struct{ mock.Mock }

func (m *MockBlacklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	return m.Called(ctx, jti, until).Error(0)
}

func (m *MockBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) ListUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	msgs, _ := args.Get(0).([]ports.OutboxMessage)
	return msgs, args.Error(1)
}

func (m *MockOutbox) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	return m.Called(ctx, ids, at).Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	return m.Called(ctx, messages).Error(0)
}
