package commands

import (
	"context"
)

// DeleteOrderCommandHandler deletes an order subtree in one transaction. The order
// row is locked first so a delete never interleaves with a fulfillment update of
// the same order. A missing order fails with errs.ErrObjectNotFound.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewDeleteOrderCommandHandler creates the delete handler.
func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delete command.
func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
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

	orderRepo := uow.OrderRepository()
	if _, err := orderRepo.GetForUpdate(ctx, cmd.Number()); err != nil {
		return err
	}
	if err := orderRepo.Delete(ctx, cmd.Number()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
