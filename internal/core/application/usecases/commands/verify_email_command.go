package commands

import (
	"context"
	"errors"
	"strings"

	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrVerifyEmailCommandIsNotConstructed = errors.New(
	"VerifyEmailCommand must be created via NewVerifyEmailCommand constructor",
)

// VerifyEmailCommand confirms an account e-mail with the token from the verification link.
type VerifyEmailCommand struct {
	role  services.Role
	token string

	guard guard.ConstructorGuard
}

func NewVerifyEmailCommand(role services.Role, token string) (VerifyEmailCommand, error) {
	if err := validateRole(role); err != nil {
		return VerifyEmailCommand{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return VerifyEmailCommand{}, errs.NewInvalidTokenError(errors.New("verification token is empty"))
	}

	return VerifyEmailCommand{role: role, token: token, guard: guard.NewConstructorGuard()}, nil
}

func (c VerifyEmailCommand) Validate() error {
	return c.guard.Validate(ErrVerifyEmailCommandIsNotConstructed)
}

func (c VerifyEmailCommand) Role() services.Role { return c.role }
func (c VerifyEmailCommand) Token() string { return c.token }

// VerifyEmailCommandHandler marks the account behind the token as verified.
// Returns errs.ErrInvalidToken for a bad token and errs.ErrObjectNotFound for a deleted account.
type VerifyEmailCommandHandler struct {
	uowFactory AccountUoWFactory
	tokens     ports.URLTokenCodec
}

func NewVerifyEmailCommandHandler(uowFactory AccountUoWFactory, tokens ports.URLTokenCodec) VerifyEmailCommandHandler {
	return VerifyEmailCommandHandler{uowFactory: uowFactory, tokens: tokens}
}

func (h VerifyEmailCommandHandler) Handle(ctx context.Context, cmd VerifyEmailCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	id, err := h.tokens.Decode(cmd.Token(), ports.SaltEmailVerification)
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

	acc, err := getAccount(ctx, uow, cmd.Role(), id)
	if err != nil {
		return err
	}

	acc.VerifyEmail()
	if err = saveAccount(ctx, uow, acc); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
