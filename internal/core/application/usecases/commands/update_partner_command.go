package commands

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/guard"
)

var ErrUpdatePartnerCommandIsNotConstructed = errors.New(
	"UpdatePartnerCommand must be created via NewUpdatePartnerCommand constructor",
)

// UpdatePartnerCommand partially updates a partner's coverage. Nil fields are left unchanged.
type UpdatePartnerCommand struct {
	partnerID           kernel.UUID
	serviceableZipCodes *[]kernel.ZipCode
	maxHandlingCapacity *int

	guard guard.ConstructorGuard
}

func NewUpdatePartnerCommand(partnerID kernel.UUID, zipCodes *[]kernel.ZipCode, capacity *int) (UpdatePartnerCommand, error) {
	if err := partnerID.Validate(); err != nil {
		return UpdatePartnerCommand{}, err
	}
	return UpdatePartnerCommand{
		partnerID:           partnerID,
		serviceableZipCodes: zipCodes,
		maxHandlingCapacity: capacity,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePartnerCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePartnerCommandIsNotConstructed)
}

// UpdatePartnerCommandHandler applies the coverage update to the acting partner.
// An update with no fields fails with errs.ErrBadRequest.
type UpdatePartnerCommandHandler struct {
	uowFactory AccountUoWFactory
}

func NewUpdatePartnerCommandHandler(uowFactory AccountUoWFactory) UpdatePartnerCommandHandler {
	return UpdatePartnerCommandHandler{uowFactory: uowFactory}
}

func (h UpdatePartnerCommandHandler) Handle(ctx context.Context, cmd UpdatePartnerCommand) error {
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

	repo := uow.PartnerRepository()
	p, err := repo.Get(ctx, cmd.partnerID)
	if err != nil {
		return err
	}

	if err = p.UpdateCoverage(cmd.serviceableZipCodes, cmd.maxHandlingCapacity); err != nil {
		return err
	}

	if err = repo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
