package queries

import (
	"context"

	"fulfillment/internal/core/application/views"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// GetOrderProgressQueryHandler computes the percentage and step shown to customers.
type GetOrderProgressQueryHandler struct {
	reader   ports.OrderReader
	progress services.ProgressCalculator
}

// NewGetOrderProgressQueryHandler creates the handler.
func NewGetOrderProgressQueryHandler(reader ports.OrderReader) GetOrderProgressQueryHandler {
	return GetOrderProgressQueryHandler{
		reader:   reader,
		progress: services.NewProgressCalculator(),
	}
}

// Handle executes the query.
func (h GetOrderProgressQueryHandler) Handle(ctx context.Context, query GetOrderProgressQuery) (views.ProgressView, error) {
	if err := query.Validate(); err != nil {
		return views.ProgressView{}, err
	}

	o, err := h.reader.Get(ctx, query.Number())
	if err != nil {
		return views.ProgressView{}, err
	}
	return views.FromProgress(o, h.progress.Calculate(o)), nil
}
