// Package ports defines the contracts between the fulfillment core and its adapters:
// repositories and unit of work for the entity store, and the publisher that
// delivers change notifications after commit.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderFilter narrows order listings. Zero values mean "no restriction".
type OrderFilter struct {
	// Statuses keeps orders in any of the given statuses.
	Statuses []order.Status
	// Category keeps orders that have at least one assignment of the category.
	Category kernel.Category
}

// OrderRepository defines the persistence contract for the order aggregate header
// and for operations on the whole order tree.
type OrderRepository interface {
	// Add persists a new order with all its items, assignments and ledger entries.
	// A duplicate order number fails with errs.ErrObjectAlreadyExists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the header of an existing order: names, statuses, QC verdict,
	// cost estimate and category list. Items are not touched.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by number with its full item tree.
	Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error)

	// GetForUpdate retrieves the order header and locks its row until the end of the
	// current transaction. Items are not loaded. Concurrent fulfillment updates of
	// the same order serialize on this lock.
	GetForUpdate(ctx context.Context, number kernel.OrderNumber) (*order.Order, error)

	// ReplaceItems deletes the stored item tree of the order and inserts the
	// aggregate's current items, assignments and ledger entries in their place.
	ReplaceItems(ctx context.Context, aggregate *order.Order) error

	// Delete removes the order and its whole subtree. A missing order fails with
	// errs.ErrObjectNotFound.
	Delete(ctx context.Context, number kernel.OrderNumber) error

	// List retrieves full order trees matching the filter, newest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)

	// ListNumbers retrieves the numbers of orders matching the filter, oldest first.
	ListNumbers(ctx context.Context, filter OrderFilter) ([]kernel.OrderNumber, error)
}
