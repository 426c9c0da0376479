package queries

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// OrderType selects orders by status in list queries.
type OrderType string

const (
	AllOrders        OrderType = "all"
	PendingOrders    OrderType = "pending"
	InProgressOrders OrderType = "inprogress"
	CompletedOrders  OrderType = "completed"
)

// ParseOrderType accepts the list filter names case-insensitively. An empty
// string selects all orders.
func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)))
	switch t {
	case "":
		return AllOrders, nil
	case AllOrders, PendingOrders, InProgressOrders, CompletedOrders:
		return t, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%q is not a valid order type", s))
	}
}

func (t OrderType) statuses() []order.Status {
	switch t {
	case PendingOrders:
		return []order.Status{order.Pending}
	case InProgressOrders:
		return []order.Status{order.InProgress}
	case CompletedOrders:
		return []order.Status{order.Completed}
	default:
		return nil
	}
}
