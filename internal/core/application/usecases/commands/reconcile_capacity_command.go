package commands

import (
	"context"
	"errors"

	"fastship/internal/pkg/guard"
)

var ErrReconcileCapacityCommandIsNotConstructed = errors.New(
	"ReconcileCapacityCommand must be created via NewReconcileCapacityCommand constructor",
)

// ReconcileCapacityCommand recomputes every partner's active shipment counter.
type ReconcileCapacityCommand struct {
	guard guard.ConstructorGuard
}

func NewReconcileCapacityCommand() ReconcileCapacityCommand {
	return ReconcileCapacityCommand{guard: guard.NewConstructorGuard()}
}

func (c ReconcileCapacityCommand) Validate() error {
	return c.guard.Validate(ErrReconcileCapacityCommandIsNotConstructed)
}

// ReconcileCapacityCommandHandler repairs counters that drifted from the shipments
// actually in flight, e.g. after a shipment row was removed by hand.
type ReconcileCapacityCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewReconcileCapacityCommandHandler(uowFactory PartnerUoWFactory) ReconcileCapacityCommandHandler {
	return ReconcileCapacityCommandHandler{uowFactory: uowFactory}
}

// Handle returns the number of partners whose counter was corrected.
func (h ReconcileCapacityCommandHandler) Handle(ctx context.Context, cmd ReconcileCapacityCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	corrected, err := uow.PartnerRepository().ReconcileActiveCounts(ctx)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return corrected, nil
}
