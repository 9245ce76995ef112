// Package notifications turns shipment status notices into client messages. It runs in the
// worker process, after the transaction that appended the event has committed.
package notifications

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"

	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"go.uber.org/zap"
)

const (
	SubjectPlaced         = "Your Order is Shipped"
	SubjectOutForDelivery = "Your Order is Arriving Soon"
	SubjectDelivered      = "Your Order is Delivered"
	SubjectCancelled      = "Your Order is Cancelled"

	TemplatePlaced         = "mail_placed"
	TemplateOutForDelivery = "mail_out_for_delivery"
	TemplateDelivered      = "mail_delivered"
	TemplateCancelled      = "mail_cancelled"

	verificationCodeDigits = 6
)

// ShipmentViewer loads the read model of a shipment.
type ShipmentViewer interface {
	Handle(ctx context.Context, query queries.GetShipmentQuery) (queries.GetShipmentQueryResponse, error)
}

// CodeGenerator returns a fresh delivery verification code.
type CodeGenerator func() (string, error)

// RandomCode returns a uniformly distributed 6-digit code, zero padded.
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", verificationCodeDigits, n.Int64()), nil
}

// ShipmentNotificationHandler sends the client message for a status notice.
//
//   - placed: mail naming the seller and the partner
//   - out_for_delivery: a new verification code, by SMS when the client left a phone
//     number, by mail otherwise
//   - delivered: mail with a review link
//   - cancelled: mail
//
// Every failure is logged and dropped. A notice is never retried.
type ShipmentNotificationHandler struct {
	shipments ShipmentViewer
	codes     ports.VerificationCodeStore
	mailer    ports.Mailer
	sms       ports.SMSSender
	tokens    ports.URLTokenCodec
	baseURL   string
	newCode   CodeGenerator
	logger    *zap.Logger
}

// NewShipmentNotificationHandler creates the handler. baseURL prefixes review links; a nil
// newCode falls back to RandomCode.
func NewShipmentNotificationHandler(
	shipments ShipmentViewer,
	codes ports.VerificationCodeStore,
	mailer ports.Mailer,
	sms ports.SMSSender,
	tokens ports.URLTokenCodec,
	baseURL string,
	newCode CodeGenerator,
	logger *zap.Logger,
) *ShipmentNotificationHandler {
	if newCode == nil {
		newCode = RandomCode
	}
	return &ShipmentNotificationHandler{
		shipments: shipments,
		codes:     codes,
		mailer:    mailer,
		sms:       sms,
		tokens:    tokens,
		baseURL:   baseURL,
		newCode:   newCode,
		logger:    logger.With(zap.String("component", "shipment_notifications")),
	}
}

// Handle delivers the message for notice.
func (h *ShipmentNotificationHandler) Handle(ctx context.Context, notice ports.ShipmentNotice) {
	log := h.logger.With(
		zap.String("shipment_id", notice.ShipmentID.String()),
		zap.String("status", string(notice.Status)),
	)

	if !notice.Status.Notifies() {
		return
	}

	if err := h.dispatch(ctx, notice); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			log.Info("shipment no longer exists, notification dropped")
			return
		}
		log.Error("failed to send shipment notification", zap.Error(err))
		return
	}
	log.Debug("shipment notification sent")
}

func (h *ShipmentNotificationHandler) dispatch(ctx context.Context, notice ports.ShipmentNotice) error {
	query, err := queries.NewGetShipmentQuery(notice.ShipmentID)
	if err != nil {
		return err
	}
	view, err := h.shipments.Handle(ctx, query)
	if err != nil {
		return err
	}

	switch notice.Status {
	case shipment.StatusPlaced:
		return h.mail(ctx, view, SubjectPlaced, TemplatePlaced, map[string]any{
			"seller":  view.Seller.Name,
			"partner": view.DeliveryPartner.Name,
			"id":      view.ID.String(),
		})
	case shipment.StatusOutForDelivery:
		return h.sendVerificationCode(ctx, view)
	case shipment.StatusDelivered:
		link, linkErr := h.reviewLink(view.ID)
		if linkErr != nil {
			return linkErr
		}
		return h.mail(ctx, view, SubjectDelivered, TemplateDelivered, map[string]any{
			"seller":     view.Seller.Name,
			"review_url": link,
		})
	case shipment.StatusCancelled:
		return h.mail(ctx, view, SubjectCancelled, TemplateCancelled, map[string]any{
			"seller": view.Seller.Name,
			"id":     view.ID.String(),
		})
	default:
		return nil
	}
}

// sendVerificationCode replaces any earlier code before telling the client, so the code the
// client receives is always the one the partner will be asked for.
func (h *ShipmentNotificationHandler) sendVerificationCode(ctx context.Context, view queries.GetShipmentQueryResponse) error {
	code, err := h.newCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	if err = h.codes.Put(ctx, view.ID, code); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	if view.ClientPhone != nil && *view.ClientPhone != "" {
		body := fmt.Sprintf("Your order is arriving soon! Share the code %s with your delivery executive to receive your package.", code)
		return h.sms.Send(ctx, *view.ClientPhone, body)
	}
	return h.mail(ctx, view, SubjectOutForDelivery, TemplateOutForDelivery, map[string]any{
		"verification_code": code,
	})
}

func (h *ShipmentNotificationHandler) reviewLink(id kernel.UUID) (string, error) {
	token, err := h.tokens.Encode(id, ports.SaltShipmentReview)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/shipments/review?token=%s", h.baseURL, url.QueryEscape(token)), nil
}

func (h *ShipmentNotificationHandler) mail(
	ctx context.Context,
	view queries.GetShipmentQueryResponse,
	subject, template string,
	data map[string]any,
) error {
	to, err := kernel.NewEmail(view.ClientEmail)
	if err != nil {
		return err
	}
	return h.mailer.Send(ctx, ports.Mail{
		To:       to,
		Subject:  subject,
		Template: template,
		Data:     data,
	})
}
