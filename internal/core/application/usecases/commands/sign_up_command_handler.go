package commands

import (
	"context"
	"fmt"
	"net/url"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"

	"go.uber.org/zap"
)

// AccountMailer builds and sends the out-of-band links of the account flows.
// BaseURL is the public address of the API, e.g. https://fastship.example.com.
type AccountMailer struct {
	BaseURL string
	Tokens  ports.URLTokenCodec
	Mailer  ports.Mailer
	Logger  *zap.Logger
}

// link returns {BaseURL}/api/v1/{role}s/{path}?token=... for the salted id.
func (m AccountMailer) link(role services.Role, path string, id kernel.UUID, salt string) (string, error) {
	token, err := m.Tokens.Encode(id, salt)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/%ss/%s?token=%s", m.BaseURL, role, path, url.QueryEscape(token)), nil
}

// send is best effort: a failed mail is logged, the account operation still succeeds.
func (m AccountMailer) send(ctx context.Context, role services.Role, acc account, subject, template, path, salt string) {
	link, err := m.link(role, path, acc.ID(), salt)
	if err == nil {
		err = m.Mailer.Send(ctx, ports.Mail{
			To:       acc.Email(),
			Subject:  subject,
			Template: template,
			Data: map[string]any{
				"username": acc.Name(),
				"url":      link,
			},
		})
	}
	if err != nil {
		m.Logger.Warn("failed to send account mail",
			zap.String("template", template),
			zap.String("account_id", acc.ID().String()),
			zap.Error(err))
	}
}

func (m AccountMailer) sendVerification(ctx context.Context, role services.Role, acc account) {
	m.send(ctx, role, acc, "Verify Your Email", "mail_email_verify", "verify", ports.SaltEmailVerification)
}

func (m AccountMailer) sendPasswordReset(ctx context.Context, role services.Role, acc account) {
	m.send(ctx, role, acc, "Reset Your Password", "mail_password_reset", "reset_password", ports.SaltPasswordReset)
}

// SignUpSellerCommandHandler stores an unverified seller and mails the verification link.
type SignUpSellerCommandHandler struct {
	uowFactory AccountUoWFactory
	hasher     ports.PasswordHasher
	mail       AccountMailer
}

func NewSignUpSellerCommandHandler(uowFactory AccountUoWFactory, hasher ports.PasswordHasher, mail AccountMailer) SignUpSellerCommandHandler {
	return SignUpSellerCommandHandler{uowFactory: uowFactory, hasher: hasher, mail: mail}
}

// Handle returns ports.ErrDuplicateEmail when the address is already registered.
func (h SignUpSellerCommandHandler) Handle(ctx context.Context, cmd SignUpSellerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return err
	}

	s, err := seller.NewSeller(cmd.SellerID(), cmd.Name(), cmd.Email(), hash, cmd.Address(), cmd.ZipCode())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.SellerRepository().Add(ctx, s); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.mail.sendVerification(ctx, services.RoleSeller, s)
	return nil
}

// SignUpPartnerCommandHandler stores an unverified partner and mails the verification link.
type SignUpPartnerCommandHandler struct {
	uowFactory AccountUoWFactory
	hasher     ports.PasswordHasher
	mail       AccountMailer
}

func NewSignUpPartnerCommandHandler(uowFactory AccountUoWFactory, hasher ports.PasswordHasher, mail AccountMailer) SignUpPartnerCommandHandler {
	return SignUpPartnerCommandHandler{uowFactory: uowFactory, hasher: hasher, mail: mail}
}

func (h SignUpPartnerCommandHandler) Handle(ctx context.Context, cmd SignUpPartnerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return err
	}

	p, err := partner.NewDeliveryPartner(cmd.PartnerID(), cmd.Name(), cmd.Email(), hash,
		cmd.ServiceableZipCodes(), cmd.MaxHandlingCapacity())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PartnerRepository().Add(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.mail.sendVerification(ctx, services.RolePartner, p)
	return nil
}
