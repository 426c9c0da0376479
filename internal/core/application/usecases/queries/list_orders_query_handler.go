package queries

import (
	"context"

	"fulfillment/internal/core/application/views"
	"fulfillment/internal/core/ports"
)

// ListOrdersQueryHandler returns full order snapshots selected by status.
type ListOrdersQueryHandler struct {
	reader ports.OrderReader
}

// NewListOrdersQueryHandler creates the handler.
func NewListOrdersQueryHandler(reader ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

// Handle executes the query. An empty result is an empty slice, never nil.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]views.OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.List(ctx, ports.OrderFilter{Statuses: query.OrderType().statuses()})
	if err != nil {
		return nil, err
	}

	out := make([]views.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, views.FromOrder(o))
	}
	return out, nil
}
