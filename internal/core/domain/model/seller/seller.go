// Package seller holds the Seller aggregate: the account that creates and owns shipments.
package seller

import (
	"errors"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var (
	// ErrSellerIsNotConstructed is returned when using a Seller that was not built by NewSeller or RestoreSeller.
	ErrSellerIsNotConstructed = errors.New("Seller must be created via NewSeller constructor")
	// ErrNameIsRequired is returned for a blank seller name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPasswordHashIsRequired is returned when no credential hash is supplied.
	ErrPasswordHashIsRequired = errs.NewValueIsRequiredError("password hash")
)

// Seller is a merchant account. Sellers sign up unverified and cannot log in
// until the e-mail verification link has been followed.
//
// Invariants:
//   - name and address are non-blank
//   - email is unique across sellers (enforced by the repository)
//   - zipCode is where the seller hands shipments over; it becomes the location
//     of every shipment's initial placed event
type Seller struct {
	id            kernel.UUID
	name          string
	email         kernel.Email
	emailVerified bool
	passwordHash  string
	address       string
	zipCode       kernel.ZipCode
	guard         guard.ConstructorGuard
}

// NewSeller registers a new, unverified seller.
//
// Parameters:
//   - name, address: non-blank, trimmed
//   - email: the login; uniqueness is checked by the repository, not here
//   - passwordHash: output of the configured password hasher, never the raw password
//   - zipCode: pickup location used as the origin of the seller's shipments
//
// Example:
//
//	hash, _ := hasher.Hash(password)
//	s, err := seller.NewSeller(kernel.NewUUID(), "Acme", email, hash, "1 Main St", kernel.MustZipCode(10001))
//
// Returns:
//   - A seller with EmailVerified() == false
//   - The joined validation errors otherwise (ErrNameIsRequired, ErrPasswordHashIsRequired, ...)
func NewSeller(
	id kernel.UUID,
	name string,
	email kernel.Email,
	passwordHash string,
	address string,
	zipCode kernel.ZipCode,
) (*Seller, error) {
	return RestoreSeller(id, name, email, false, passwordHash, address, zipCode)
}

// RestoreSeller rehydrates a seller from storage, including its verification flag.
func RestoreSeller(
	id kernel.UUID,
	name string,
	email kernel.Email,
	emailVerified bool,
	passwordHash string,
	address string,
	zipCode kernel.ZipCode,
) (*Seller, error) {
	s := &Seller{
		emailVerified: emailVerified,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setName(name),
		s.setEmail(email),
		s.setPasswordHash(passwordHash),
		s.setAddress(address),
		s.setZipCode(zipCode),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the seller was constructed properly.
func (s *Seller) Validate() error {
	if s == nil {
		return ErrSellerIsNotConstructed
	}
	return s.guard.Validate(ErrSellerIsNotConstructed)
}

func (s *Seller) ID() kernel.UUID {
	return s.id
}

func (s *Seller) Name() string {
	return s.name
}

func (s *Seller) Email() kernel.Email {
	return s.email
}

func (s *Seller) EmailVerified() bool {
	return s.emailVerified
}

func (s *Seller) PasswordHash() string {
	return s.passwordHash
}

func (s *Seller) Address() string {
	return s.address
}

func (s *Seller) ZipCode() kernel.ZipCode {
	return s.zipCode
}

// CanLogIn reports whether the seller finished e-mail verification.
func (s *Seller) CanLogIn() bool {
	return s.emailVerified
}

// VerifyEmail marks the e-mail as verified. Verifying twice is a no-op.
func (s *Seller) VerifyEmail() {
	s.emailVerified = true
}

// ChangePassword replaces the stored credential hash.
func (s *Seller) ChangePassword(hash string) error {
	return s.setPasswordHash(hash)
}

func (s *Seller) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Seller) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	s.name = name
	return nil
}

func (s *Seller) setEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	s.email = email
	return nil
}

func (s *Seller) setPasswordHash(hash string) error {
	if hash == "" {
		return ErrPasswordHashIsRequired
	}
	s.passwordHash = hash
	return nil
}

func (s *Seller) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	s.address = address
	return nil
}

func (s *Seller) setZipCode(zip kernel.ZipCode) error {
	if err := zip.Validate(); err != nil {
		return err
	}
	s.zipCode = zip
	return nil
}
