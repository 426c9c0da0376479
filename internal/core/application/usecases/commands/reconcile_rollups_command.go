package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var (
	ErrReconcileRollupsCommandIsNotConstructed = errors.New(
		"ReconcileRollupsCommand must be created via NewReconcileRollupsCommand constructor",
	)
)

// ReconcileRollupsCommand re-derives the category and order statuses of every
// order that is not Completed yet.
//
// Example:
//
//	cmd := NewReconcileRollupsCommand()
//	handler := NewReconcileRollupsCommandHandler(uowFactory)
//
//	// Run periodically to repair statuses left behind by interrupted writers
//	result, err := handler.Handle(ctx, cmd)
type ReconcileRollupsCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcileRollupsCommand creates the parameterless reconciliation command.
func NewReconcileRollupsCommand() ReconcileRollupsCommand {
	return ReconcileRollupsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ReconcileRollupsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileRollupsCommandIsNotConstructed)
}
