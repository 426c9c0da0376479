package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"go.uber.org/zap"
)

// EditOrderResult is returned by a successful order edit. Dropped lists ledger
// progress that no new assignment matched and that is therefore gone.
type EditOrderResult struct {
	Order   *order.Order
	Carried int
	Dropped []services.DroppedProgress
}

// EditOrderCommandHandler replaces an order's item tree.
//
// Every old assignment is matched to a new one by its identity key (item name,
// category, team, spec name and attributes) and its ledger is carried over; a
// carried total larger than the new quantity rejects the whole edit with
// errs.ErrCapacityExceeded. Old progress without a match is dropped and logged at
// WARN. Category and order statuses are then recomputed from the carried ledgers
// and may move back, which only an edit is allowed to do. The QC verdict is kept.
type EditOrderCommandHandler struct {
	uowFactory UoWFactory
	rollup     services.RollupCalculator
	carrier    services.LedgerCarrier
	logger     *zap.Logger
}

// NewEditOrderCommandHandler creates the edit handler.
func NewEditOrderCommandHandler(uowFactory UoWFactory, logger *zap.Logger) EditOrderCommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return EditOrderCommandHandler{
		uowFactory: uowFactory,
		rollup:     services.NewRollupCalculator(),
		carrier:    services.NewLedgerCarrier(),
		logger:     logger.With(zap.String("component", "edit_order")),
	}
}

// Handle applies the edit in one transaction.
func (h EditOrderCommandHandler) Handle(ctx context.Context, cmd EditOrderCommand) (EditOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return EditOrderResult{}, err
	}

	newItems, err := buildItems(cmd.Number(), cmd.Items())
	if err != nil {
		return EditOrderResult{}, err
	}
	cost, err := buildCostEstimate(cmd.CostEstimate())
	if err != nil {
		return EditOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return EditOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.Number())
	if err != nil {
		return EditOrderResult{}, err
	}
	oldItems, err := uow.ItemRepository().ListByOrder(ctx, cmd.Number())
	if err != nil {
		return EditOrderResult{}, err
	}

	carried, err := h.carrier.Carry(oldItems, newItems)
	if err != nil {
		return EditOrderResult{}, err
	}

	for _, it := range newItems {
		for c, status := range h.rollup.ItemStatuses(it) {
			if err = it.ResetCategory(c, status); err != nil {
				return EditOrderResult{}, err
			}
		}
	}

	if err = o.Edit(cmd.Dispatcher(), cmd.Customer(), newItems, cost); err != nil {
		return EditOrderResult{}, err
	}
	if err = o.ResetStatus(h.rollup.OrderStatus(newItems, o.QCStatus())); err != nil {
		return EditOrderResult{}, err
	}

	o.RaiseFulfillmentChanged(order.OrderEdited, nil, o.Categories(), nil)
	if err = orderRepo.ReplaceItems(ctx, o); err != nil {
		return EditOrderResult{}, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return EditOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return EditOrderResult{}, err
	}

	for _, d := range carried.Dropped {
		h.logger.Warn("order edit dropped ledger progress",
			zap.String("order_number", o.Number().String()),
			zap.String("item", d.ItemName),
			zap.String("assignment_id", d.AssignmentID.String()),
			zap.String("category", d.Category.String()),
			zap.String("spec", d.SpecName),
			zap.Int("total_completed", d.TotalCompleted),
		)
	}

	return EditOrderResult{Order: o, Carried: carried.Carried, Dropped: carried.Dropped}, nil
}
