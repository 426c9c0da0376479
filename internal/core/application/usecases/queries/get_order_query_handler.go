package queries

import (
	"context"

	"fulfillment/internal/core/application/views"
	"fulfillment/internal/core/ports"
)

// GetOrderQueryHandler loads one order with its whole item tree.
// A missing order fails with errs.ErrObjectNotFound.
type GetOrderQueryHandler struct {
	reader ports.OrderReader
}

// NewGetOrderQueryHandler creates the handler.
func NewGetOrderQueryHandler(reader ports.OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

// Handle executes the query.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (views.OrderView, error) {
	if err := query.Validate(); err != nil {
		return views.OrderView{}, err
	}

	o, err := h.reader.Get(ctx, query.Number())
	if err != nil {
		return views.OrderView{}, err
	}
	return views.FromOrder(o), nil
}
