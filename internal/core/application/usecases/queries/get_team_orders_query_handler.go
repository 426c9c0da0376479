package queries

import (
	"context"

	"fulfillment/internal/core/application/views"
	"fulfillment/internal/core/ports"
)

// GetTeamOrdersQueryHandler returns the orders having assignments of one category.
type GetTeamOrdersQueryHandler struct {
	reader ports.OrderReader
}

// NewGetTeamOrdersQueryHandler creates the handler.
func NewGetTeamOrdersQueryHandler(reader ports.OrderReader) GetTeamOrdersQueryHandler {
	return GetTeamOrdersQueryHandler{reader: reader}
}

// Handle executes the query.
func (h GetTeamOrdersQueryHandler) Handle(ctx context.Context, query GetTeamOrdersQuery) ([]views.OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.List(ctx, ports.OrderFilter{
		Statuses: query.OrderType().statuses(),
		Category: query.Category(),
	})
	if err != nil {
		return nil, err
	}

	out := make([]views.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, views.ForCategory(o, query.Category()))
	}
	return out, nil
}
