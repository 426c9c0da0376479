package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// RollupCalculator derives fulfillment statuses bottom-up from snapshots of
// assignments. Its functions are pure: the same snapshot always yields the same
// result, and nothing is written. Callers persist transitions themselves, forward
// only, so running the rollup twice is harmless.
//
// Derivation rules:
//   - a category is Completed when every assignment in it is Completed, InProgress
//     when at least one unit has been reported, and Pending otherwise
//   - a category without assignments is not applicable and never blocks the rollup
//   - an order is Completed when every applicable category of every item is Completed
//     and the QC verdict is Completed; otherwise it is InProgress once any unit has
//     been reported, and Pending before that
//
// Example usage:
//
//	rollup := services.NewRollupCalculator()
//	status, applicable := rollup.CategoryStatus(item.Assignments(kernel.Glass))
//	if applicable {
//	    _, _ = item.AdvanceCategory(kernel.Glass, status)
//	}
//	orderStatus := rollup.OrderStatus(items, o.QCStatus())
type RollupCalculator struct{}

// NewRollupCalculator creates a RollupCalculator.
func NewRollupCalculator() RollupCalculator {
	return RollupCalculator{}
}

// CategoryStatus computes the status of one item category from its assignments.
// applicable is false for an empty list, in which case status is Completed so that
// callers folding statuses together can treat it as neutral.
func (RollupCalculator) CategoryStatus(assignments []*order.Assignment) (status order.Status, applicable bool) {
	if len(assignments) == 0 {
		return order.Completed, false
	}

	allCompleted := true
	anyProgress := false
	for _, a := range assignments {
		if !a.Status().IsCompleted() {
			allCompleted = false
		}
		if a.TotalCompleted() > 0 {
			anyProgress = true
		}
	}

	switch {
	case allCompleted:
		return order.Completed, true
	case anyProgress:
		return order.InProgress, true
	default:
		return order.Pending, true
	}
}

// ItemStatuses computes the status of every applicable category of an item.
func (r RollupCalculator) ItemStatuses(item *order.Item) map[kernel.Category]order.Status {
	out := make(map[kernel.Category]order.Status)
	for _, c := range item.Categories() {
		if status, applicable := r.CategoryStatus(item.Assignments(c)); applicable {
			out[c] = status
		}
	}
	return out
}

// ProductionComplete reports whether every applicable category of every item is Completed.
func (r RollupCalculator) ProductionComplete(items []*order.Item) bool {
	for _, it := range items {
		for _, status := range r.ItemStatuses(it) {
			if !status.IsCompleted() {
				return false
			}
		}
	}
	return true
}

// OrderStatus computes the order status from its items and QC verdict. Production
// is evaluated first and the QC verdict is applied on top of it: a finished
// production with an open verdict yields InProgress, never Completed.
func (r RollupCalculator) OrderStatus(items []*order.Item, qc order.QCStatus) order.Status {
	if r.ProductionComplete(items) && qc.IsCompleted() {
		return order.Completed
	}

	for _, it := range items {
		for _, a := range it.AllAssignments() {
			if a.TotalCompleted() > 0 {
				return order.InProgress
			}
		}
	}
	return order.Pending
}
