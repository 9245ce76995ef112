package notifications_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"fastship/internal/core/application/usecases/notifications"
	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockViewer struct{ mock.Mock }

func (m *MockViewer) Handle(ctx context.Context, q queries.GetShipmentQuery) (queries.GetShipmentQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.GetShipmentQueryResponse), args.Error(1)
}

type MockCodeStore struct{ mock.Mock }

func (m *MockCodeStore) Put(ctx context.Context, id kernel.UUID, code string) error {
	return m.Called(ctx, id, code).Error(0)
}

func (m *MockCodeStore) Consume(ctx context.Context, id kernel.UUID, code string) (bool, error) {
	args := m.Called(ctx, id, code)
	return args.Bool(0), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, mail ports.Mail) error {
	return m.Called(ctx, mail).Error(0)
}

type MockSMS struct{ mock.Mock }

func (m *MockSMS) Send(ctx context.Context, to, body string) error {
	return m.Called(ctx, to, body).Error(0)
}

type MockTokens struct{ mock.Mock }

func (m *MockTokens) Encode(id kernel.UUID, salt string) (string, error) {
	args := m.Called(id, salt)
	return args.String(0), args.Error(1)
}

func (m *MockTokens) Decode(token, salt string) (kernel.UUID, error) {
	args := m.Called(token, salt)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type fixture struct {
	viewer *MockViewer
	codes  *MockCodeStore
	mailer *MockMailer
	sms    *MockSMS
	tokens *MockTokens
	view   queries.GetShipmentQueryResponse
}

func newFixture() *fixture {
	return &fixture{
		viewer: new(MockViewer),
		codes:  new(MockCodeStore),
		mailer: new(MockMailer),
		sms:    new(MockSMS),
		tokens: new(MockTokens),
		view: queries.GetShipmentQueryResponse{
			ID:              kernel.NewUUID(),
			ClientEmail:     "client@mail.io",
			Seller:          queries.PartyView{ID: kernel.NewUUID(), Name: "Acme"},
			DeliveryPartner: queries.PartyView{ID: kernel.NewUUID(), Name: "Swift"},
		},
	}
}

func (f *fixture) handler(newCode notifications.CodeGenerator) *notifications.ShipmentNotificationHandler {
	return notifications.NewShipmentNotificationHandler(
		f.viewer, f.codes, f.mailer, f.sms, f.tokens, "https://fastship.test", newCode, zap.NewNop(),
	)
}

func (f *fixture) expectView() {
	f.viewer.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetShipmentQuery) bool {
		return q.ID().IsEqual(f.view.ID)
	})).Return(f.view, nil).Once()
}

func (f *fixture) notice(status shipment.Status) ports.ShipmentNotice {
	return ports.ShipmentNotice{ShipmentID: f.view.ID, Status: status}
}

func fixedCode() (string, error) { return "042424", nil }

func TestRandomCode(t *testing.T) {
	t.Run("should produce six digits", func(t *testing.T) {
		for range 50 {
			code, err := notifications.RandomCode()
			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
		}
	})
}

func TestShipmentNotificationHandler_Handle(t *testing.T) {
	t.Run("should mail the seller and partner names when placed", func(t *testing.T) {
		f := newFixture()
		f.expectView()
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m ports.Mail) bool {
			return m.To.String() == "client@mail.io" &&
				m.Subject == notifications.SubjectPlaced &&
				m.Template == notifications.TemplatePlaced &&
				m.Data["seller"] == "Acme" &&
				m.Data["partner"] == "Swift" &&
				m.Data["id"] == f.view.ID.String()
		})).Return(nil).Once()

		f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusPlaced))

		f.mailer.AssertExpectations(t)
	})

	t.Run("should do nothing for in transit scans", func(t *testing.T) {
		f := newFixture()

		f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusInTransit))

		f.viewer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("should store the code and text it when a phone is on file", func(t *testing.T) {
		f := newFixture()
		phone := "+15550001111"
		f.view.ClientPhone = &phone
		f.expectView()
		f.codes.On("Put", mock.Anything, f.view.ID, "042424").Return(nil).Once()
		f.sms.On("Send", mock.Anything, phone, mock.MatchedBy(func(body string) bool {
			return regexp.MustCompile(`\b042424\b`).MatchString(body)
		})).Return(nil).Once()

		f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusOutForDelivery))

		f.codes.AssertExpectations(t)
		f.sms.AssertExpectations(t)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("should mail the code without a phone", func(t *testing.T) {
		f := newFixture()
		f.expectView()
		f.codes.On("Put", mock.Anything, f.view.ID, "042424").Return(nil).Once()
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m ports.Mail) bool {
			return m.Subject == notifications.SubjectOutForDelivery &&
				m.Template == notifications.TemplateOutForDelivery &&
				m.Data["verification_code"] == "042424"
		})).Return(nil).Once()

		f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusOutForDelivery))

		f.mailer.AssertExpectations(t)
		f.sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should not announce a code it could not store", func(t *testing.T) {
		f := newFixture()
		f.expectView()
		f.codes.On("Put", mock.Anything, f.view.ID, "042424").Return(errors.New("redis down")).Once()

		f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusOutForDelivery))

		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		f.sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should mail a review link when delivered", func(t *testing.T) {
		f := newFixture()
		f.expectView()
		f.tokens.On("Encode", f.view.ID, ports.SaltShipmentReview).Return("a+b", nil).Once()
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m ports.Mail) bool {
			return m.Subject == notifications.SubjectDelivered &&
				m.Template == notifications.TemplateDelivered &&
				m.Data["review_url"] == "https://fastship.test/api/v1/shipments/review?token=a%2Bb"
		})).Return(nil).Once()

		f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusDelivered))

		f.mailer.AssertExpectations(t)
	})

	t.Run("should mail the cancellation", func(t *testing.T) {
		f := newFixture()
		f.expectView()
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m ports.Mail) bool {
			return m.Subject == notifications.SubjectCancelled && m.Template == notifications.TemplateCancelled
		})).Return(nil).Once()

		f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusCancelled))

		f.mailer.AssertExpectations(t)
	})

	t.Run("should swallow a deleted shipment and a failed send", func(t *testing.T) {
		f := newFixture()
		f.viewer.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetShipmentQueryResponse{}, errs.NewObjectNotFoundError("shipment", f.view.ID)).Once()

		assert.NotPanics(t, func() {
			f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusCancelled))
		})

		f.expectView()
		f.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
		assert.NotPanics(t, func() {
			f.handler(fixedCode).Handle(t.Context(), f.notice(shipment.StatusCancelled))
		})
		f.mailer.AssertExpectations(t)
	})
}
