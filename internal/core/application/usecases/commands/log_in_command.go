package commands

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrLogInCommandIsNotConstructed = errors.New(
	"LogInCommand must be created via NewLogInCommand constructor",
)

// LogInCommand exchanges credentials for an access token.
type LogInCommand struct {
	role     services.Role
	email    kernel.Email
	password string

	guard guard.ConstructorGuard
}

func NewLogInCommand(role services.Role, email kernel.Email, password string) (LogInCommand, error) {
	if err := errors.Join(validateRole(role), email.Validate()); err != nil {
		return LogInCommand{}, err
	}

	return LogInCommand{role: role, email: email, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (c LogInCommand) Validate() error {
	return c.guard.Validate(ErrLogInCommandIsNotConstructed)
}

func (c LogInCommand) Role() services.Role { return c.role }
func (c LogInCommand) Email() kernel.Email { return c.email }
func (c LogInCommand) Password() string { return c.password }

// LogInCommandHandler verifies credentials and issues an access token whose audience is the role.
// Unknown e-mail, wrong password and unverified account all yield errs.ErrBadCredentials.
type LogInCommandHandler struct {
	uowFactory AccountUoWFactory
	hasher     ports.PasswordHasher
	issuer     ports.AccessTokenIssuer
}

func NewLogInCommandHandler(uowFactory AccountUoWFactory, hasher ports.PasswordHasher, issuer ports.AccessTokenIssuer) LogInCommandHandler {
	return LogInCommandHandler{uowFactory: uowFactory, hasher: hasher, issuer: issuer}
}

func (h LogInCommandHandler) Handle(ctx context.Context, cmd LogInCommand) (ports.AccessToken, error) {
	if err := cmd.Validate(); err != nil {
		return ports.AccessToken{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.AccessToken{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	acc, err := getAccountByEmail(ctx, uow, cmd.Role(), cmd.Email())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ports.AccessToken{}, errs.ErrBadCredentials
	}
	if err != nil {
		return ports.AccessToken{}, err
	}

	ok, err := h.hasher.Verify(acc.PasswordHash(), cmd.Password())
	if err != nil {
		return ports.AccessToken{}, err
	}
	if !ok || !acc.CanLogIn() {
		return ports.AccessToken{}, errs.ErrBadCredentials
	}

	return h.issuer.Issue(ports.AccessSubject{
		ID:   acc.ID(),
		Name: acc.Name(),
		Role: string(cmd.Role()),
	})
}
