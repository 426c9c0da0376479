package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ItemRepository defines the persistence contract for order items.
type ItemRepository interface {
	// Get retrieves an item by ID with its assignments and their ledgers.
	Get(ctx context.Context, id kernel.UUID) (*order.Item, error)

	// ListByOrder retrieves every item of an order with assignments, in position order.
	// Inside a transaction it observes the transaction's own writes.
	ListByOrder(ctx context.Context, number kernel.OrderNumber) ([]*order.Item, error)

	// UpdateTeamStatus persists the per-category statuses of an item.
	UpdateTeamStatus(ctx context.Context, item *order.Item) error
}
