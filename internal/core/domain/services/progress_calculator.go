package services

import (
	"fulfillment/internal/core/domain/model/order"
)

// Customer-facing tracking steps.
const (
	StepOrderReceived = 1
	StepInProduction  = 2
	StepQualityCheck  = 3
	StepCompleted     = 4

	TotalSteps = 4
)

// Progress is the customer view of an order: how far along it is, without team detail.
type Progress struct {
	Percentage     int
	Step           int
	StepName       string
	TotalSteps     int
	CompletedUnits int
	TotalUnits     int
}

// ProgressCalculator derives customer progress from an order snapshot with its items.
type ProgressCalculator struct {
	rollup RollupCalculator
}

// NewProgressCalculator creates a ProgressCalculator.
func NewProgressCalculator() ProgressCalculator {
	return ProgressCalculator{rollup: NewRollupCalculator()}
}

// Calculate returns the completion percentage (units reported over units ordered,
// rounded down) and the current step. Orders without assignments report 100 once
// Completed and 0 before.
func (p ProgressCalculator) Calculate(o *order.Order) Progress {
	progress := Progress{TotalSteps: TotalSteps}

	items := o.Items()
	for _, it := range items {
		for _, a := range it.AllAssignments() {
			progress.TotalUnits += a.Quantity()
			progress.CompletedUnits += min(a.TotalCompleted(), a.Quantity())
		}
	}

	switch {
	case progress.TotalUnits > 0:
		progress.Percentage = progress.CompletedUnits * 100 / progress.TotalUnits
	case o.Status().IsCompleted():
		progress.Percentage = 100
	}

	switch {
	case o.Status().IsCompleted():
		progress.Step, progress.StepName = StepCompleted, "Completed"
		progress.Percentage = 100
	case progress.TotalUnits > 0 && p.rollup.ProductionComplete(items):
		progress.Step, progress.StepName = StepQualityCheck, "Quality check"
	case progress.CompletedUnits > 0:
		progress.Step, progress.StepName = StepInProduction, "In production"
	default:
		progress.Step, progress.StepName = StepOrderReceived, "Order received"
	}

	return progress
}
