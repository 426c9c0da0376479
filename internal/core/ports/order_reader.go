package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderReader is the read-only side of the order store used by queries. Reads
// run outside any unit of work and see the last committed state.
type OrderReader interface {
	Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
