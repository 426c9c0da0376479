package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrEditOrderCommandIsNotConstructed = errors.New(
		"EditOrderCommand must be created via NewEditOrderCommand constructor",
	)
)

// EditOrderCommand replaces the header, the cost estimate and the entire item
// tree of an existing order. Ledger progress follows the assignments that keep
// their identity across the edit.
type EditOrderCommand struct { //nolint:recvcheck //using for validation
	number       kernel.OrderNumber
	dispatcher   string
	customer     string
	items        []ItemInput
	costEstimate *CostEstimateInput

	guard guard.ConstructorGuard
}

// NewEditOrderCommand creates an edit request, validating it like a creation.
func NewEditOrderCommand(
	number string,
	dispatcher string,
	customer string,
	items []ItemInput,
	costEstimate *CostEstimateInput,
) (EditOrderCommand, error) {
	cmd := EditOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	n, err := kernel.NewOrderNumber(number)
	if err != nil {
		return EditOrderCommand{}, err
	}
	cmd.number = n

	cmd.dispatcher = strings.TrimSpace(dispatcher)
	cmd.customer = strings.TrimSpace(customer)
	var missing []error
	if cmd.dispatcher == "" {
		missing = append(missing, errs.NewValueIsRequiredError("dispatcherName"))
	}
	if cmd.customer == "" {
		missing = append(missing, errs.NewValueIsRequiredError("customerName"))
	}
	if err = errors.Join(missing...); err != nil {
		return EditOrderCommand{}, err
	}

	if err = validateItems(n, items); err != nil {
		return EditOrderCommand{}, err
	}
	if _, err = buildCostEstimate(costEstimate); err != nil {
		return EditOrderCommand{}, err
	}

	cmd.items = copyItemInputs(items)
	if costEstimate != nil {
		ce := *costEstimate
		cmd.costEstimate = &ce
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c EditOrderCommand) Validate() error {
	return c.guard.Validate(ErrEditOrderCommandIsNotConstructed)
}

// Number returns the order being edited.
func (c EditOrderCommand) Number() kernel.OrderNumber { return c.number }

// Dispatcher returns the new dispatcher name.
func (c EditOrderCommand) Dispatcher() string { return c.dispatcher }

// Customer returns the new customer name.
func (c EditOrderCommand) Customer() string { return c.customer }

// Items returns the replacement items.
func (c EditOrderCommand) Items() []ItemInput { return copyItemInputs(c.items) }

// CostEstimate returns the replacement cost estimate, or nil to clear it.
func (c EditOrderCommand) CostEstimate() *CostEstimateInput { return c.costEstimate }
