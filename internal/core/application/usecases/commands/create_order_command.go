package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to register a new manufacturing order
// together with its items and their per-category assignments.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("PO-1001", "Dana", "Acme Cosmetics", []ItemInput{{
//	    Name: "Serum bottle",
//	    Assignments: []AssignmentInput{
//	        {Category: kernel.Glass, SpecName: "Amber 30ml", Quantity: 100},
//	        {Category: kernel.Caps, SpecName: "Dropper cap", Quantity: 100},
//	    },
//	}}, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	number       kernel.OrderNumber
	dispatcher   string
	customer     string
	items        []ItemInput
	costEstimate *CostEstimateInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates the order number, both names, every item and assignment, and the
// cost estimate before any transaction is opened.
func NewCreateOrderCommand(
	number string,
	dispatcher string,
	customer string,
	items []ItemInput,
	costEstimate *CostEstimateInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setNumber(number),
		cmd.setDispatcher(dispatcher),
		cmd.setCustomer(customer),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	if err := validateItems(cmd.number, items); err != nil {
		return CreateOrderCommand{}, err
	}
	if _, err := buildCostEstimate(costEstimate); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.items = copyItemInputs(items)
	if costEstimate != nil {
		ce := *costEstimate
		cmd.costEstimate = &ce
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Number returns the order number to register.
func (c CreateOrderCommand) Number() kernel.OrderNumber {
	return c.number
}

// Dispatcher returns the dispatcher name.
func (c CreateOrderCommand) Dispatcher() string {
	return c.dispatcher
}

// Customer returns the customer name.
func (c CreateOrderCommand) Customer() string {
	return c.customer
}

// Items returns the requested items.
func (c CreateOrderCommand) Items() []ItemInput {
	return copyItemInputs(c.items)
}

// CostEstimate returns the optional cost estimate.
func (c CreateOrderCommand) CostEstimate() *CostEstimateInput {
	return c.costEstimate
}

func (c *CreateOrderCommand) setNumber(number string) error {
	n, err := kernel.NewOrderNumber(number)
	if err != nil {
		return err
	}

	c.number = n
	return nil
}

func (c *CreateOrderCommand) setDispatcher(dispatcher string) error {
	dispatcher = strings.TrimSpace(dispatcher)
	if dispatcher == "" {
		return errs.NewValueIsRequiredError("dispatcherName")
	}

	c.dispatcher = dispatcher
	return nil
}

func (c *CreateOrderCommand) setCustomer(customer string) error {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return errs.NewValueIsRequiredError("customerName")
	}

	c.customer = customer
	return nil
}
