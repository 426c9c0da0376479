package commands

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// AssignmentInput describes one assignment of an item in a create or edit request.
// Team may be empty, in which case the category's default team is responsible.
type AssignmentInput struct {
	Category   kernel.Category
	Team       string
	SpecName   string
	Attributes map[string]string
	Quantity   int
}

// ItemInput describes one order line in a create or edit request.
type ItemInput struct {
	Name        string
	Assignments []AssignmentInput
}

// CostEstimateInput carries the amounts of an optional cost estimate.
type CostEstimateInput struct {
	ItemsCost           decimal.Decimal
	ShippingAndHandling decimal.Decimal
	Taxes               decimal.Decimal
	AdditionalFees      decimal.Decimal
}

// buildItems turns request inputs into new items with fresh identifiers.
// Errors name the offending item and assignment by position.
func buildItems(number kernel.OrderNumber, inputs []ItemInput) ([]*order.Item, error) {
	items := make([]*order.Item, 0, len(inputs))
	for i, in := range inputs {
		itemID := kernel.NewUUID()

		assignments := make([]*order.Assignment, 0, len(in.Assignments))
		for j, ain := range in.Assignments {
			spec, err := order.NewSpec(ain.Category, ain.SpecName, ain.Attributes)
			if err != nil {
				return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].assignments[%d]", i, j), err)
			}
			a, err := order.NewAssignment(kernel.NewUUID(), itemID, ain.Category, ain.Team, spec, ain.Quantity)
			if err != nil {
				return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].assignments[%d]", i, j), err)
			}
			assignments = append(assignments, a)
		}

		it, err := order.NewItem(itemID, number, in.Name, i, assignments)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
		items = append(items, it)
	}
	return items, nil
}

// validateItems checks inputs without keeping the built items.
func validateItems(number kernel.OrderNumber, inputs []ItemInput) error {
	_, err := buildItems(number, inputs)
	return err
}

func buildCostEstimate(in *CostEstimateInput) (*order.CostEstimate, error) {
	if in == nil {
		return nil, nil
	}
	ce, err := order.NewCostEstimate(in.ItemsCost, in.ShippingAndHandling, in.Taxes, in.AdditionalFees)
	if err != nil {
		return nil, err
	}
	return &ce, nil
}

func copyItemInputs(inputs []ItemInput) []ItemInput {
	out := make([]ItemInput, len(inputs))
	for i, in := range inputs {
		out[i] = ItemInput{Name: in.Name, Assignments: make([]AssignmentInput, len(in.Assignments))}
		copy(out[i].Assignments, in.Assignments)
	}
	return out
}
