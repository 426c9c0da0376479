package queries

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery lists orders for the dispatcher dashboard, newest first.
//
// Example:
//
//	query, _ := NewListOrdersQuery("inprogress")
//	orders, err := NewListOrdersQueryHandler(reader).Handle(ctx, query)
type ListOrdersQuery struct {
	orderType OrderType

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a list query. orderType is one of all, pending,
// inprogress or completed; empty means all.
func NewListOrdersQuery(orderType string) (ListOrdersQuery, error) {
	t, err := ParseOrderType(orderType)
	if err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{orderType: t, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// OrderType returns the status selection.
func (q ListOrdersQuery) OrderType() OrderType {
	return q.orderType
}
