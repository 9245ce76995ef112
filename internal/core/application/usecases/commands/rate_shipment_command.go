package commands

import (
	"errors"
	"strings"

	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrRateShipmentCommandIsNotConstructed = errors.New(
	"RateShipmentCommand must be created via NewRateShipmentCommand constructor",
)

// RateShipmentCommand carries a customer review submitted through the tokenized review link.
// The rating range is checked when the review is built.
type RateShipmentCommand struct { //nolint:recvcheck //using for validation
	token   string
	rating  int
	comment *string

	guard guard.ConstructorGuard
}

func NewRateShipmentCommand(token string, rating int, comment *string) (RateShipmentCommand, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return RateShipmentCommand{}, errs.NewInvalidTokenError(errors.New("review token is empty"))
	}

	return RateShipmentCommand{
		token:   token,
		rating:  rating,
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrRateShipmentCommandIsNotConstructed)
}

func (c RateShipmentCommand) Token() string {
	return c.token
}

func (c RateShipmentCommand) Rating() int {
	return c.rating
}

func (c RateShipmentCommand) Comment() *string {
	return c.comment
}
