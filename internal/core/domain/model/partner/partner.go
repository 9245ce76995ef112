// Package partner holds the DeliveryPartner aggregate: the carrier account that
// serves a set of zip codes up to a fixed number of concurrently active shipments.
package partner

import (
	"errors"
	"sort"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var (
	// ErrDeliveryPartnerIsNotConstructed is returned when using a partner that was not built by a constructor.
	ErrDeliveryPartnerIsNotConstructed = errors.New("DeliveryPartner must be created via NewDeliveryPartner constructor")
	// ErrNameIsRequired is returned for a blank partner name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPasswordHashIsRequired is returned when no credential hash is supplied.
	ErrPasswordHashIsRequired = errs.NewValueIsRequiredError("password hash")
	// ErrServiceableZipCodesAreRequired is returned when a partner would serve no zip code at all.
	ErrServiceableZipCodesAreRequired = errs.NewValueIsRequiredError("serviceable zip codes")
)

// DeliveryPartner carries shipments inside the zip codes it serves.
//
// Business rules:
//   - serviceable zip codes form a non-empty set (duplicates collapse)
//   - maxHandlingCapacity is positive
//   - activeShipmentCount never drops below zero; it counts assigned shipments whose
//     status is neither delivered nor cancelled and is maintained by the repository's
//     atomic claim/release operations
//   - ResidualCapacity = maxHandlingCapacity - activeShipmentCount
//
// A partner whose capacity was lowered below its active count keeps its shipments but has
// no residual capacity until enough of them reach a terminal status.
type DeliveryPartner struct {
	id                  kernel.UUID
	name                string
	email               kernel.Email
	emailVerified       bool
	passwordHash        string
	serviceableZipCodes []kernel.ZipCode
	maxHandlingCapacity int
	activeShipmentCount int
	guard               guard.ConstructorGuard
}

// NewDeliveryPartner registers a new, unverified partner with no active shipments.
//
// Parameters:
//   - name: non-blank display name, also used in the placed event description
//   - email: the login; uniqueness is checked by the repository
//   - passwordHash: output of the configured password hasher
//   - serviceableZipCodes: at least one zip code; duplicates are collapsed and the list
//     is kept in ascending order
//   - maxHandlingCapacity: positive number of shipments the partner can carry at once
//
// Example:
//
//	zips, _ := kernel.NewZipCodes([]int{10001, 10002})
//	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Swift", email, hash, zips, 5)
//	// p.ResidualCapacity() == 5
//
// Returns:
//   - A partner with ActiveShipmentCount() == 0
//   - The joined validation errors otherwise
func NewDeliveryPartner(
	id kernel.UUID,
	name string,
	email kernel.Email,
	passwordHash string,
	serviceableZipCodes []kernel.ZipCode,
	maxHandlingCapacity int,
) (*DeliveryPartner, error) {
	return RestoreDeliveryPartner(id, name, email, false, passwordHash, serviceableZipCodes, maxHandlingCapacity, 0)
}

// RestoreDeliveryPartner rehydrates a partner from storage, including its verification
// flag and active shipment counter.
func RestoreDeliveryPartner(
	id kernel.UUID,
	name string,
	email kernel.Email,
	emailVerified bool,
	passwordHash string,
	serviceableZipCodes []kernel.ZipCode,
	maxHandlingCapacity int,
	activeShipmentCount int,
) (*DeliveryPartner, error) {
	p := &DeliveryPartner{
		emailVerified: emailVerified,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setEmail(email),
		p.setPasswordHash(passwordHash),
		p.setServiceableZipCodes(serviceableZipCodes),
		p.setMaxHandlingCapacity(maxHandlingCapacity),
		p.setActiveShipmentCount(activeShipmentCount),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate ensures the partner was constructed properly.
func (p *DeliveryPartner) Validate() error {
	if p == nil {
		return ErrDeliveryPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrDeliveryPartnerIsNotConstructed)
}

// IsEqual compares partners by identifier.
func (p *DeliveryPartner) IsEqual(other *DeliveryPartner) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *DeliveryPartner) ID() kernel.UUID {
	return p.id
}

func (p *DeliveryPartner) Name() string {
	return p.name
}

func (p *DeliveryPartner) Email() kernel.Email {
	return p.email
}

func (p *DeliveryPartner) EmailVerified() bool {
	return p.emailVerified
}

func (p *DeliveryPartner) PasswordHash() string {
	return p.passwordHash
}

// ServiceableZipCodes returns a copy of the served zip codes in ascending order.
func (p *DeliveryPartner) ServiceableZipCodes() []kernel.ZipCode {
	zips := make([]kernel.ZipCode, len(p.serviceableZipCodes))
	copy(zips, p.serviceableZipCodes)
	return zips
}

func (p *DeliveryPartner) MaxHandlingCapacity() int {
	return p.maxHandlingCapacity
}

func (p *DeliveryPartner) ActiveShipmentCount() int {
	return p.activeShipmentCount
}

// ResidualCapacity is how many more active shipments the partner can take.
// It is negative when the capacity was lowered below the active count.
func (p *DeliveryPartner) ResidualCapacity() int {
	return p.maxHandlingCapacity - p.activeShipmentCount
}

// HasCapacity reports whether ResidualCapacity is positive.
func (p *DeliveryPartner) HasCapacity() bool {
	return p.ResidualCapacity() > 0
}

// ServesZip reports whether zip is one of the serviceable zip codes.
func (p *DeliveryPartner) ServesZip(zip kernel.ZipCode) bool {
	for _, z := range p.serviceableZipCodes {
		if z.IsEqual(zip) {
			return true
		}
	}
	return false
}

// CanLogIn reports whether the partner finished e-mail verification.
func (p *DeliveryPartner) CanLogIn() bool {
	return p.emailVerified
}

// VerifyEmail marks the e-mail as verified.
func (p *DeliveryPartner) VerifyEmail() {
	p.emailVerified = true
}

// ChangePassword replaces the stored credential hash.
func (p *DeliveryPartner) ChangePassword(hash string) error {
	return p.setPasswordHash(hash)
}

// UpdateCoverage partially updates the serviceable zip codes and the handling capacity.
// At least one of the two must be supplied, otherwise errs.ErrBadRequest is returned.
// Nothing is changed when any supplied value is invalid.
func (p *DeliveryPartner) UpdateCoverage(zipCodes *[]kernel.ZipCode, maxHandlingCapacity *int) error {
	if zipCodes == nil && maxHandlingCapacity == nil {
		return errs.NewBadRequestError("no fields to update")
	}

	draft := *p
	var errList []error
	if zipCodes != nil {
		errList = append(errList, draft.setServiceableZipCodes(*zipCodes))
	}
	if maxHandlingCapacity != nil {
		errList = append(errList, draft.setMaxHandlingCapacity(*maxHandlingCapacity))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	*p = draft
	return nil
}

func (p *DeliveryPartner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *DeliveryPartner) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *DeliveryPartner) setEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	p.email = email
	return nil
}

func (p *DeliveryPartner) setPasswordHash(hash string) error {
	if hash == "" {
		return ErrPasswordHashIsRequired
	}
	p.passwordHash = hash
	return nil
}

func (p *DeliveryPartner) setServiceableZipCodes(zips []kernel.ZipCode) error {
	if len(zips) == 0 {
		return ErrServiceableZipCodesAreRequired
	}

	seen := make(map[int]struct{}, len(zips))
	unique := make([]kernel.ZipCode, 0, len(zips))
	for _, z := range zips {
		if err := z.Validate(); err != nil {
			return err
		}
		if _, ok := seen[z.Int()]; ok {
			continue
		}
		seen[z.Int()] = struct{}{}
		unique = append(unique, z)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Int() < unique[j].Int() })

	p.serviceableZipCodes = unique
	return nil
}

func (p *DeliveryPartner) setMaxHandlingCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsOutOfRangeError("max handling capacity", capacity, 1, "unbounded")
	}
	p.maxHandlingCapacity = capacity
	return nil
}

func (p *DeliveryPartner) setActiveShipmentCount(count int) error {
	if count < 0 {
		return errs.NewValueIsOutOfRangeError("active shipment count", count, 0, "unbounded")
	}
	p.activeShipmentCount = count
	return nil
}
