package commands

import (
	"errors"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var (
	ErrSignUpSellerCommandIsNotConstructed = errors.New(
		"SignUpSellerCommand must be created via NewSignUpSellerCommand constructor",
	)
	ErrSignUpPartnerCommandIsNotConstructed = errors.New(
		"SignUpPartnerCommand must be created via NewSignUpPartnerCommand constructor",
	)
)

// SignUpSellerCommand registers a seller account.
type SignUpSellerCommand struct { //nolint:recvcheck //using for validation
	sellerID kernel.UUID
	name     string
	email    kernel.Email
	password string
	address  string
	zipCode  kernel.ZipCode

	guard guard.ConstructorGuard
}

func NewSignUpSellerCommand(
	sellerID kernel.UUID,
	name string,
	email kernel.Email,
	password string,
	address string,
	zipCode kernel.ZipCode,
) (SignUpSellerCommand, error) {
	var nameErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}

	if err := errors.Join(
		sellerID.Validate(),
		nameErr,
		email.Validate(),
		validatePassword(password),
		zipCode.Validate(),
	); err != nil {
		return SignUpSellerCommand{}, err
	}

	return SignUpSellerCommand{
		sellerID: sellerID,
		name:     name,
		email:    email,
		password: password,
		address:  address,
		zipCode:  zipCode,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SignUpSellerCommand) Validate() error {
	return c.guard.Validate(ErrSignUpSellerCommandIsNotConstructed)
}

func (c SignUpSellerCommand) SellerID() kernel.UUID { return c.sellerID }
func (c SignUpSellerCommand) Name() string { return c.name }
func (c SignUpSellerCommand) Email() kernel.Email { return c.email }
func (c SignUpSellerCommand) Password() string { return c.password }
func (c SignUpSellerCommand) Address() string { return c.address }
func (c SignUpSellerCommand) ZipCode() kernel.ZipCode { return c.zipCode }

// SignUpPartnerCommand registers a delivery partner account with its coverage.
type SignUpPartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID           kernel.UUID
	name                string
	email               kernel.Email
	password            string
	serviceableZipCodes []kernel.ZipCode
	maxHandlingCapacity int

	guard guard.ConstructorGuard
}

func NewSignUpPartnerCommand(
	partnerID kernel.UUID,
	name string,
	email kernel.Email,
	password string,
	serviceableZipCodes []kernel.ZipCode,
	maxHandlingCapacity int,
) (SignUpPartnerCommand, error) {
	var nameErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}

	if err := errors.Join(
		partnerID.Validate(),
		nameErr,
		email.Validate(),
		validatePassword(password),
	); err != nil {
		return SignUpPartnerCommand{}, err
	}

	return SignUpPartnerCommand{
		partnerID:           partnerID,
		name:                name,
		email:               email,
		password:            password,
		serviceableZipCodes: serviceableZipCodes,
		maxHandlingCapacity: maxHandlingCapacity,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c SignUpPartnerCommand) Validate() error {
	return c.guard.Validate(ErrSignUpPartnerCommandIsNotConstructed)
}

func (c SignUpPartnerCommand) PartnerID() kernel.UUID { return c.partnerID }
func (c SignUpPartnerCommand) Name() string { return c.name }
func (c SignUpPartnerCommand) Email() kernel.Email { return c.email }
func (c SignUpPartnerCommand) Password() string { return c.password }
func (c SignUpPartnerCommand) MaxHandlingCapacity() int {
	return c.maxHandlingCapacity
}

func (c SignUpPartnerCommand) ServiceableZipCodes() []kernel.ZipCode {
	return append([]kernel.ZipCode(nil), c.serviceableZipCodes...)
}
