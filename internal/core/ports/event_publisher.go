package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// EventPublisher delivers fulfillment change notifications to interested parties
// (dispatchers, production teams, customers). It is invoked only after the
// transaction that produced the event has committed; a publishing failure never
// affects the committed state.
type EventPublisher interface {
	Publish(ctx context.Context, event order.FulfillmentChanged) error
}
