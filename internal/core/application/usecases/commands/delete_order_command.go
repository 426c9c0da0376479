package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrDeleteOrderCommandIsNotConstructed = errors.New(
		"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
	)
)

// DeleteOrderCommand removes an order with all of its items, assignments and ledgers.
type DeleteOrderCommand struct {
	number kernel.OrderNumber

	guard guard.ConstructorGuard
}

// NewDeleteOrderCommand creates a delete request for the given order number.
func NewDeleteOrderCommand(number string) (DeleteOrderCommand, error) {
	n, err := kernel.NewOrderNumber(number)
	if err != nil {
		return DeleteOrderCommand{}, err
	}

	return DeleteOrderCommand{
		number: n,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

// Number returns the order to delete.
func (c DeleteOrderCommand) Number() kernel.OrderNumber {
	return c.number
}
