package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderProgressQueryIsNotConstructed = errors.New(
		"GetOrderProgressQuery must be created via NewGetOrderProgressQuery constructor",
	)
)

// GetOrderProgressQuery retrieves the customer tracking view of an order.
type GetOrderProgressQuery struct {
	number kernel.OrderNumber

	guard guard.ConstructorGuard
}

// NewGetOrderProgressQuery creates the query.
func NewGetOrderProgressQuery(number string) (GetOrderProgressQuery, error) {
	n, err := kernel.NewOrderNumber(number)
	if err != nil {
		return GetOrderProgressQuery{}, err
	}
	return GetOrderProgressQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderProgressQueryIsNotConstructed)
}

// Number returns the requested order number.
func (q GetOrderProgressQuery) Number() kernel.OrderNumber {
	return q.number
}
