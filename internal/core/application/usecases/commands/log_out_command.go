package commands

import (
	"context"
	"errors"
	"time"

	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrLogOutCommandIsNotConstructed = errors.New(
	"LogOutCommand must be created via NewLogOutCommand constructor",
)

// LogOutCommand revokes the access token identified by its jti.
type LogOutCommand struct {
	jti       string
	expiresAt time.Time

	guard guard.ConstructorGuard
}

func NewLogOutCommand(jti string, expiresAt time.Time) (LogOutCommand, error) {
	if jti == "" {
		return LogOutCommand{}, errs.NewInvalidTokenError(errors.New("token has no jti"))
	}
	return LogOutCommand{jti: jti, expiresAt: expiresAt, guard: guard.NewConstructorGuard()}, nil
}

func (c LogOutCommand) Validate() error {
	return c.guard.Validate(ErrLogOutCommandIsNotConstructed)
}

// LogOutCommandHandler blacklists the token until it would have expired anyway.
type LogOutCommandHandler struct {
	blacklist ports.TokenBlacklist
}

func NewLogOutCommandHandler(blacklist ports.TokenBlacklist) LogOutCommandHandler {
	return LogOutCommandHandler{blacklist: blacklist}
}

func (h LogOutCommandHandler) Handle(ctx context.Context, cmd LogOutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.blacklist.Revoke(ctx, cmd.jti, cmd.expiresAt)
}
