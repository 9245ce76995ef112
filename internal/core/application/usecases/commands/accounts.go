package commands

import (
	"context"
	"fmt"
	"unicode/utf8"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/services"
	"fastship/internal/pkg/errs"
)

const passwordMinLength = 8

// account is what sellers and partners share for authentication purposes.
type account interface {
	ID() kernel.UUID
	Name() string
	Email() kernel.Email
	PasswordHash() string
	CanLogIn() bool
	VerifyEmail()
	ChangePassword(hash string) error
}

func validateRole(role services.Role) error {
	if role != services.RoleSeller && role != services.RolePartner {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not an account role", role))
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < passwordMinLength {
		return errs.NewValueIsOutOfRangeError("password length", utf8.RuneCountInString(password), passwordMinLength, "unbounded")
	}
	return nil
}

func getAccount(ctx context.Context, uow AccountUoW, role services.Role, id kernel.UUID) (account, error) {
	if role == services.RoleSeller {
		return uow.SellerRepository().Get(ctx, id)
	}
	return uow.PartnerRepository().Get(ctx, id)
}

func getAccountByEmail(ctx context.Context, uow AccountUoW, role services.Role, email kernel.Email) (account, error) {
	if role == services.RoleSeller {
		return uow.SellerRepository().GetByEmail(ctx, email)
	}
	return uow.PartnerRepository().GetByEmail(ctx, email)
}

func saveAccount(ctx context.Context, uow AccountUoW, acc account) error {
	switch a := acc.(type) {
	case *seller.Seller:
		return uow.SellerRepository().Update(ctx, a)
	case *partner.DeliveryPartner:
		return uow.PartnerRepository().Update(ctx, a)
	default:
		return fmt.Errorf("unsupported account type %T", acc)
	}
}
