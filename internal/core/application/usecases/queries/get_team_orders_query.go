package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetTeamOrdersQueryIsNotConstructed = errors.New(
		"GetTeamOrdersQuery must be created via NewGetTeamOrdersQuery constructor",
	)
)

// GetTeamOrdersQuery lists the orders a production team works on. Each order is
// trimmed to the team's category.
//
// Example:
//
//	query, err := NewGetTeamOrdersQuery("glass", "pending")
//	if err != nil {
//	    return err
//	}
//	orders, err := NewGetTeamOrdersQueryHandler(reader).Handle(ctx, query)
type GetTeamOrdersQuery struct {
	category  kernel.Category
	orderType OrderType

	guard guard.ConstructorGuard
}

// NewGetTeamOrdersQuery creates a team listing for category, selected by orderType.
func NewGetTeamOrdersQuery(category, orderType string) (GetTeamOrdersQuery, error) {
	c, categoryErr := kernel.ParseCategory(category)
	t, typeErr := ParseOrderType(orderType)
	if err := errors.Join(categoryErr, typeErr); err != nil {
		return GetTeamOrdersQuery{}, err
	}
	return GetTeamOrdersQuery{category: c, orderType: t, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTeamOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetTeamOrdersQueryIsNotConstructed)
}

// Category returns the team's category.
func (q GetTeamOrdersQuery) Category() kernel.Category {
	return q.category
}

// OrderType returns the status selection.
func (q GetTeamOrdersQuery) OrderType() OrderType {
	return q.orderType
}
