package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// The order, its items, assignments and empty ledgers are written in one
// transaction; a duplicate order number fails with errs.ErrObjectAlreadyExists.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	created, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectAlreadyExists) {
//	    // order number is taken
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command and returns the created order.
// Every category with at least one assignment starts Pending, as does the order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := buildItems(cmd.Number(), cmd.Items())
	if err != nil {
		return nil, err
	}
	cost, err := buildCostEstimate(cmd.CostEstimate())
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(kernel.NewUUID(), cmd.Number(), cmd.Dispatcher(), cmd.Customer(), items, cost)
	if err != nil {
		return nil, err
	}
	created.RaiseFulfillmentChanged(order.OrderCreated, nil, created.Categories(), nil)

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
