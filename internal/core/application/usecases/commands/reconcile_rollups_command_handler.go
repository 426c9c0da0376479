package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// ReconcileRollupsResult reports what a reconciliation pass did.
type ReconcileRollupsResult struct {
	Checked    int
	Reconciled []kernel.OrderNumber
}

// ReconcileRollupsCommandHandler re-runs the item and order rollup for every
// order that is not Completed, one transaction per order. Statuses only move
// forward and nothing is written when the stored statuses already match the
// ledgers, so the pass is idempotent. A failure on one order does not stop the
// others; all failures are returned joined.
type ReconcileRollupsCommandHandler struct {
	uowFactory UoWFactory
	rollup     services.RollupCalculator
}

// NewReconcileRollupsCommandHandler creates the reconciliation handler.
func NewReconcileRollupsCommandHandler(uowFactory UoWFactory) ReconcileRollupsCommandHandler {
	return ReconcileRollupsCommandHandler{
		uowFactory: uowFactory,
		rollup:     services.NewRollupCalculator(),
	}
}

// Handle processes the reconciliation command.
func (h ReconcileRollupsCommandHandler) Handle(ctx context.Context, cmd ReconcileRollupsCommand) (ReconcileRollupsResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileRollupsResult{}, err
	}

	numbers, err := h.uowFactory.Create().OrderRepository().ListNumbers(ctx, ports.OrderFilter{
		Statuses: []order.Status{order.Pending, order.InProgress},
	})
	if err != nil {
		return ReconcileRollupsResult{}, err
	}

	result := ReconcileRollupsResult{Checked: len(numbers)}
	var failures []error
	for _, number := range numbers {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}
		changed, reconcileErr := h.reconcile(ctx, number)
		if reconcileErr != nil {
			failures = append(failures, fmt.Errorf("order %s: %w", number, reconcileErr))
			continue
		}
		if changed {
			result.Reconciled = append(result.Reconciled, number)
		}
	}

	return result, errors.Join(failures...)
}

func (h ReconcileRollupsCommandHandler) reconcile(ctx context.Context, number kernel.OrderNumber) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, number)
	if err != nil {
		return false, err
	}
	items, err := uow.ItemRepository().ListByOrder(ctx, number)
	if err != nil {
		return false, err
	}

	itemsChanged, err := advanceItemCategories(ctx, uow.ItemRepository(), h.rollup, items)
	if err != nil {
		return false, err
	}
	if err = o.AttachItems(items); err != nil {
		return false, err
	}
	orderChanged, err := o.AdvanceStatus(h.rollup.OrderStatus(items, o.QCStatus()))
	if err != nil {
		return false, err
	}

	if !itemsChanged && !orderChanged {
		return false, nil
	}

	o.RaiseFulfillmentChanged(order.RollupReconciled, nil, o.Categories(), nil)
	if err = orderRepo.Update(ctx, o); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
