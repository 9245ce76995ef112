package commands

import (
	"context"
	"errors"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var (
	ErrRequestPasswordResetCommandIsNotConstructed = errors.New(
		"RequestPasswordResetCommand must be created via NewRequestPasswordResetCommand constructor",
	)
	ErrResetPasswordCommandIsNotConstructed = errors.New(
		"ResetPasswordCommand must be created via NewResetPasswordCommand constructor",
	)
)

// RequestPasswordResetCommand asks for a password reset link.
type RequestPasswordResetCommand struct {
	role  services.Role
	email kernel.Email

	guard guard.ConstructorGuard
}

func NewRequestPasswordResetCommand(role services.Role, email kernel.Email) (RequestPasswordResetCommand, error) {
	if err := errors.Join(validateRole(role), email.Validate()); err != nil {
		return RequestPasswordResetCommand{}, err
	}
	return RequestPasswordResetCommand{role: role, email: email, guard: guard.NewConstructorGuard()}, nil
}

func (c RequestPasswordResetCommand) Validate() error {
	return c.guard.Validate(ErrRequestPasswordResetCommandIsNotConstructed)
}

// RequestPasswordResetCommandHandler mails a reset link. Unknown addresses are ignored
// silently so the endpoint cannot be used to probe for accounts.
type RequestPasswordResetCommandHandler struct {
	uowFactory AccountUoWFactory
	mail       AccountMailer
}

func NewRequestPasswordResetCommandHandler(uowFactory AccountUoWFactory, mail AccountMailer) RequestPasswordResetCommandHandler {
	return RequestPasswordResetCommandHandler{uowFactory: uowFactory, mail: mail}
}

func (h RequestPasswordResetCommandHandler) Handle(ctx context.Context, cmd RequestPasswordResetCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	acc, err := getAccountByEmail(ctx, uow, cmd.role, cmd.email)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	h.mail.sendPasswordReset(ctx, cmd.role, acc)
	return nil
}

// ResetPasswordCommand sets a new password using the token from the reset link.
type ResetPasswordCommand struct {
	role     services.Role
	token    string
	password string

	guard guard.ConstructorGuard
}

func NewResetPasswordCommand(role services.Role, token, password string) (ResetPasswordCommand, error) {
	token = strings.TrimSpace(token)
	var tokenErr error
	if token == "" {
		tokenErr = errs.NewInvalidTokenError(errors.New("reset token is empty"))
	}
	if err := errors.Join(validateRole(role), tokenErr, validatePassword(password)); err != nil {
		return ResetPasswordCommand{}, err
	}
	return ResetPasswordCommand{role: role, token: token, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (c ResetPasswordCommand) Validate() error {
	return c.guard.Validate(ErrResetPasswordCommandIsNotConstructed)
}

// ResetPasswordCommandHandler stores the new password hash.
// Returns errs.ErrInvalidToken for a bad token and errs.ErrObjectNotFound for a deleted account.
type ResetPasswordCommandHandler struct {
	uowFactory AccountUoWFactory
	tokens     ports.URLTokenCodec
	hasher     ports.PasswordHasher
}

func NewResetPasswordCommandHandler(
	uowFactory AccountUoWFactory,
	tokens ports.URLTokenCodec,
	hasher ports.PasswordHasher,
) ResetPasswordCommandHandler {
	return ResetPasswordCommandHandler{uowFactory: uowFactory, tokens: tokens, hasher: hasher}
}

func (h ResetPasswordCommandHandler) Handle(ctx context.Context, cmd ResetPasswordCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	id, err := h.tokens.Decode(cmd.token, ports.SaltPasswordReset)
	if err != nil {
		return err
	}

	hash, err := h.hasher.Hash(cmd.password)
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

	acc, err := getAccount(ctx, uow, cmd.role, id)
	if err != nil {
		return err
	}

	if err = acc.ChangePassword(hash); err != nil {
		return err
	}

	if err = saveAccount(ctx, uow, acc); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
