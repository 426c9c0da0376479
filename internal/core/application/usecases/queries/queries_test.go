package queries_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		in      string
		want    queries.OrderType
		wantErr bool
	}{
		{in: "", want: queries.AllOrders},
		{in: "all", want: queries.AllOrders},
		{in: "Pending", want: queries.PendingOrders},
		{in: "in_progress", want: queries.InProgressOrders},
		{in: "InProgress", want: queries.InProgressOrders},
		{in: "completed", want: queries.CompletedOrders},
		{in: "archived", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := queries.ParseOrderType(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryConstructors(t *testing.T) {
	_, err := queries.NewGetOrderQuery("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetOrderProgressQuery("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewListOrdersQuery("later")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = queries.NewGetTeamOrdersQuery("labels", "all")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	q, err := queries.NewGetTeamOrdersQuery("GLASS", "")
	require.NoError(t, err)
	assert.Equal(t, kernel.Glass, q.Category())
	assert.Equal(t, queries.AllOrders, q.OrderType())

	assert.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetTeamOrdersQuery{}.Validate(), queries.ErrGetTeamOrdersQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetOrderProgressQuery{}.Validate(), queries.ErrGetOrderProgressQueryIsNotConstructed)
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := newTestOrder(t, "PO-1", 40)
	query, err := queries.NewGetOrderQuery("PO-1")
	require.NoError(t, err)

	reader := new(MockOrderReader)
	reader.On("Get", ctx, o.Number()).Return(o, nil).Once()

	view, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "PO-1", view.OrderNumber)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 40, view.Items[0].Assignments[0].TotalCompleted)
	reader.AssertExpectations(t)
}

func TestGetOrderQueryHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	query, _ := queries.NewGetOrderQuery("PO-404")
	number, _ := kernel.NewOrderNumber("PO-404")

	reader := new(MockOrderReader)
	reader.On("Get", ctx, number).Return(nil, errs.NewObjectNotFoundError("order", "PO-404")).Once()

	_, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestListOrdersQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	query, err := queries.NewListOrdersQuery("pending")
	require.NoError(t, err)

	reader := new(MockOrderReader)
	reader.On("List", ctx, ports.OrderFilter{Statuses: []order.Status{order.Pending}}).
		Return([]*order.Order{newTestOrder(t, "PO-2", 0), newTestOrder(t, "PO-1", 0)}, nil).Once()

	orders, err := queries.NewListOrdersQueryHandler(reader).Handle(ctx, query)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "PO-2", orders[0].OrderNumber)
	reader.AssertExpectations(t)
}

func TestListOrdersQueryHandler_Handle_Empty(t *testing.T) {
	ctx := t.Context()
	query, _ := queries.NewListOrdersQuery("all")

	reader := new(MockOrderReader)
	reader.On("List", ctx, ports.OrderFilter{}).Return([]*order.Order{}, nil).Once()

	orders, err := queries.NewListOrdersQueryHandler(reader).Handle(ctx, query)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrdersQueryHandler_Handle_ReaderError(t *testing.T) {
	ctx := t.Context()
	query, _ := queries.NewListOrdersQuery("all")

	reader := new(MockOrderReader)
	reader.On("List", ctx, ports.OrderFilter{}).Return(nil, errors.New("db down")).Once()

	_, err := queries.NewListOrdersQueryHandler(reader).Handle(ctx, query)
	require.Error(t, err)
}

func TestGetTeamOrdersQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	query, err := queries.NewGetTeamOrdersQuery("caps", "inprogress")
	require.NoError(t, err)

	reader := new(MockOrderReader)
	reader.On("List", ctx, ports.OrderFilter{
		Statuses: []order.Status{order.InProgress},
		Category: kernel.Caps,
	}).Return([]*order.Order{newTestOrder(t, "PO-3", 10)}, nil).Once()

	orders, err := queries.NewGetTeamOrdersQueryHandler(reader).Handle(ctx, query)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, []string{"caps"}, orders[0].Categories)
	require.Len(t, orders[0].Items, 1)
	require.Len(t, orders[0].Items[0].Assignments, 1)
	assert.Equal(t, "caps", orders[0].Items[0].Assignments[0].Category)
}

func TestGetOrderProgressQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := newTestOrder(t, "PO-4", 50)
	query, _ := queries.NewGetOrderProgressQuery("PO-4")

	reader := new(MockOrderReader)
	reader.On("Get", ctx, o.Number()).Return(o, nil).Once()

	view, err := queries.NewGetOrderProgressQueryHandler(reader).Handle(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, 25, view.Percentage)
	assert.Equal(t, 2, view.Step)
	assert.Equal(t, "In production", view.StepName)
	assert.Equal(t, 4, view.TotalSteps)
}
