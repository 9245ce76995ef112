package kernel

import (
	"fmt"
	"net/mail"
	"strings"

	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

// ErrEmailIsNotConstructed is returned when a zero-value Email is used.
var ErrEmailIsNotConstructed = errs.NewValueIsRequiredError("email must be created via NewEmail")

// Email is a bare, lowercased e-mail address (no display name).
type Email struct { //nolint:recvcheck //using for validation
	address string
	guard   guard.ConstructorGuard
}

// NewEmail trims and lowercases raw and checks that it is a single bare address.
//
// Returns:
//   - errs.ErrValueIsRequired for a blank input
//   - errs.ErrValueIsInvalid for anything net/mail cannot parse, or for an address with a
//     display name such as "Bob <bob@mail.io>"
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, errs.NewValueIsRequiredError("email")
	}

	parsed, err := mail.ParseAddress(normalized)
	if err != nil {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	if parsed.Address != normalized {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email",
			fmt.Errorf("%q is not a bare address", raw))
	}

	return Email{
		address: normalized,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// String returns the normalized address.
func (e Email) String() string {
	return e.address
}

// IsEqual compares two addresses after normalization.
func (e Email) IsEqual(other Email) bool {
	return e.address == other.address
}

// Validate ensures the email was created through NewEmail.
func (e Email) Validate() error {
	return e.guard.Validate(ErrEmailIsNotConstructed)
}
