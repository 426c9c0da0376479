package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// AssignmentRepository defines the persistence contract for assignments and their ledgers.
type AssignmentRepository interface {
	// GetForUpdate retrieves an assignment with its ledger and locks its row until
	// the end of the current transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Assignment, error)

	// Save persists the ledger total, the status and the entries appended since the
	// assignment was loaded.
	Save(ctx context.Context, assignment *order.Assignment) error

	// ListByItemCategory retrieves all assignments of one category of an item.
	ListByItemCategory(ctx context.Context, itemID kernel.UUID, category kernel.Category) ([]*order.Assignment, error)
}
