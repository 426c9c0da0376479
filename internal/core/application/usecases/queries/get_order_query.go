package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the full snapshot of one order.
//
// Example:
//
//	query, err := NewGetOrderQuery("PO-1001")
//	if err != nil {
//	    return err
//	}
//	view, err := NewGetOrderQueryHandler(reader).Handle(ctx, query)
type GetOrderQuery struct {
	number kernel.OrderNumber

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order number.
func NewGetOrderQuery(number string) (GetOrderQuery, error) {
	n, err := kernel.NewOrderNumber(number)
	if err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// Number returns the requested order number.
func (q GetOrderQuery) Number() kernel.OrderNumber {
	return q.number
}
