package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// DefaultMaxConflictRetries is used when the handler is created with a negative retry count.
const DefaultMaxConflictRetries = 3

// AssignmentResult is the state of one updated assignment after the transaction.
// Applied is false when the entry was a replay of an already recorded one.
type AssignmentResult struct {
	AssignmentID   kernel.UUID
	Status         order.Status
	TotalCompleted int
	Applied        bool
}

// FulfillmentUpdateResult is returned by a successful fulfillment update.
type FulfillmentUpdateResult struct {
	Order              *order.Order
	UpdatedAssignments []AssignmentResult
}

// ApplyFulfillmentUpdatesCommandHandler coordinates one fulfillment update as a
// single transaction spanning the assignment ledgers, the item category
// statuses, the QC verdict and the order status.
//
// The order row is locked first, so concurrent updates of one order run one after
// the other. Within the transaction the steps are:
//  1. append each entry to its assignment ledger (capacity is checked here)
//  2. re-read the assignments of each touched category and advance the category
//  3. apply the QC verdict, if any
//  4. re-read all items of the order, advance stale categories and derive the
//     order status from production first and the verdict second
//  5. persist the order and raise one FulfillmentChanged event
//
// Any failure aborts the whole transaction. Retryable conflicts reported by the
// store re-run the whole update against fresh state, up to maxRetries times.
//
// Example:
//
//	handler := NewApplyFulfillmentUpdatesCommandHandler(uowFactory, 3)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrCapacityExceeded):
//	    // report the remaining quantity to the client
//	case errs.IsRetryable(err):
//	    // contention did not clear within the retry budget
//	}
type ApplyFulfillmentUpdatesCommandHandler struct {
	uowFactory UoWFactory
	rollup     services.RollupCalculator
	maxRetries int
}

// NewApplyFulfillmentUpdatesCommandHandler creates the coordinator. maxRetries is
// the number of extra attempts after a retryable conflict; zero disables retries.
func NewApplyFulfillmentUpdatesCommandHandler(uowFactory UoWFactory, maxRetries int) ApplyFulfillmentUpdatesCommandHandler {
	if maxRetries < 0 {
		maxRetries = DefaultMaxConflictRetries
	}
	return ApplyFulfillmentUpdatesCommandHandler{
		uowFactory: uowFactory,
		rollup:     services.NewRollupCalculator(),
		maxRetries: maxRetries,
	}
}

// Handle applies the update and returns the updated order with the per-assignment results.
func (h ApplyFulfillmentUpdatesCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyFulfillmentUpdatesCommand,
) (FulfillmentUpdateResult, error) {
	if err := cmd.Validate(); err != nil {
		return FulfillmentUpdateResult{}, err
	}

	for attempt := 0; ; attempt++ {
		result, err := h.apply(ctx, cmd)
		if err == nil || !errs.IsRetryable(err) || attempt >= h.maxRetries || ctx.Err() != nil {
			return result, err
		}
	}
}

func (h ApplyFulfillmentUpdatesCommandHandler) apply(
	ctx context.Context,
	cmd ApplyFulfillmentUpdatesCommand,
) (FulfillmentUpdateResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return FulfillmentUpdateResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	itemRepo := uow.ItemRepository()
	assignmentRepo := uow.AssignmentRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderNumber())
	if err != nil {
		return FulfillmentUpdateResult{}, err
	}

	results := make([]AssignmentResult, 0, len(cmd.Updates()))
	changes := make([]order.AssignmentChange, 0, len(cmd.Updates()))
	categories := make([]kernel.Category, 0)
	changed := false

	if updates := cmd.Updates(); len(updates) > 0 {
		item, itemErr := itemRepo.Get(ctx, *cmd.ItemID())
		if itemErr != nil {
			return FulfillmentUpdateResult{}, itemErr
		}
		if !item.OrderNumber().IsEqual(o.Number()) {
			return FulfillmentUpdateResult{}, errs.NewObjectNotFoundError(
				"item", fmt.Sprintf("%s in order %s", item.ID(), o.Number()))
		}

		for _, u := range updates {
			result, change, recordErr := h.recordProgress(ctx, assignmentRepo, item, u)
			if recordErr != nil {
				return FulfillmentUpdateResult{}, recordErr
			}
			changed = changed || result.Applied
			results = append(results, result)
			changes = append(changes, change)
			categories = appendCategory(categories, change.Category)
		}

		for _, c := range categories {
			assignments, listErr := assignmentRepo.ListByItemCategory(ctx, item.ID(), c)
			if listErr != nil {
				return FulfillmentUpdateResult{}, listErr
			}
			status, applicable := h.rollup.CategoryStatus(assignments)
			if !applicable {
				continue
			}
			moved, advanceErr := item.AdvanceCategory(c, status)
			if advanceErr != nil {
				return FulfillmentUpdateResult{}, advanceErr
			}
			if moved {
				changed = true
				if err = itemRepo.UpdateTeamStatus(ctx, item); err != nil {
					return FulfillmentUpdateResult{}, err
				}
			}
		}
	}

	kind := order.ProgressRecorded
	if verdict := cmd.QCVerdict(); verdict != nil {
		qcChanged, qcErr := o.SetQCVerdict(*verdict)
		if qcErr != nil {
			return FulfillmentUpdateResult{}, qcErr
		}
		changed = changed || qcChanged
		if len(results) == 0 {
			kind = order.QCUpdated
		}
	}

	items, err := itemRepo.ListByOrder(ctx, o.Number())
	if err != nil {
		return FulfillmentUpdateResult{}, err
	}
	itemsChanged, err := advanceItemCategories(ctx, itemRepo, h.rollup, items)
	if err != nil {
		return FulfillmentUpdateResult{}, err
	}
	if err = o.AttachItems(items); err != nil {
		return FulfillmentUpdateResult{}, err
	}
	orderChanged, err := o.AdvanceStatus(h.rollup.OrderStatus(items, o.QCStatus()))
	if err != nil {
		return FulfillmentUpdateResult{}, err
	}

	// A replay with nothing new leaves the order row and subscribers untouched.
	if changed || itemsChanged || orderChanged {
		o.RaiseFulfillmentChanged(kind, cmd.ItemID(), categories, changes)
		if err = orderRepo.Update(ctx, o); err != nil {
			return FulfillmentUpdateResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return FulfillmentUpdateResult{}, err
	}

	return FulfillmentUpdateResult{Order: o, UpdatedAssignments: results}, nil
}

// recordProgress appends one entry to its assignment ledger under a row lock.
func (h ApplyFulfillmentUpdatesCommandHandler) recordProgress(
	ctx context.Context,
	repo assignmentLocker,
	item *order.Item,
	u ProgressUpdate,
) (AssignmentResult, order.AssignmentChange, error) {
	if _, ok := item.Assignment(u.AssignmentID); !ok {
		return AssignmentResult{}, order.AssignmentChange{}, errs.NewObjectNotFoundError(
			"assignment", fmt.Sprintf("%s in item %s", u.AssignmentID, item.ID()))
	}

	a, err := repo.GetForUpdate(ctx, u.AssignmentID)
	if err != nil {
		return AssignmentResult{}, order.AssignmentChange{}, err
	}

	applied, err := a.RecordProgress(u.Entry)
	if err != nil {
		return AssignmentResult{}, order.AssignmentChange{}, err
	}

	if applied {
		if err = checkExpectations(a, u); err != nil {
			return AssignmentResult{}, order.AssignmentChange{}, err
		}
		if err = repo.Save(ctx, a); err != nil {
			return AssignmentResult{}, order.AssignmentChange{}, err
		}
	}

	return AssignmentResult{
			AssignmentID:   a.ID(),
			Status:         a.Status(),
			TotalCompleted: a.TotalCompleted(),
			Applied:        applied,
		}, order.AssignmentChange{
			AssignmentID:   a.ID(),
			Category:       a.Category(),
			Status:         a.Status(),
			TotalCompleted: a.TotalCompleted(),
			Quantity:       a.Quantity(),
		}, nil
}

type assignmentLocker interface {
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Assignment, error)
	Save(ctx context.Context, assignment *order.Assignment) error
}

func checkExpectations(a *order.Assignment, u ProgressUpdate) error {
	if u.ExpectedTotal != nil && *u.ExpectedTotal != a.TotalCompleted() {
		return errs.NewConflictError(
			"assignment "+a.ID().String(),
			fmt.Sprintf("expected total %d, server total is %d", *u.ExpectedTotal, a.TotalCompleted()),
		)
	}
	if u.ExpectedStatus != nil && *u.ExpectedStatus != a.Status() {
		return errs.NewConflictError(
			"assignment "+a.ID().String(),
			fmt.Sprintf("expected status %s, server status is %s", *u.ExpectedStatus, a.Status()),
		)
	}
	return nil
}

func appendCategory(categories []kernel.Category, c kernel.Category) []kernel.Category {
	for _, existing := range categories {
		if existing == c {
			return categories
		}
	}
	return append(categories, c)
}
