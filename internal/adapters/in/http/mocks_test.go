package http

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/application/views"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockOrderCreator struct{ mock.Mock }

func (m *MockOrderCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOrderEditor struct{ mock.Mock }

func (m *MockOrderEditor) Handle(ctx context.Context, cmd commands.EditOrderCommand) (commands.EditOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.EditOrderResult), args.Error(1)
}

type MockOrderDeleter struct{ mock.Mock }

func (m *MockOrderDeleter) Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockFulfillmentUpdater struct{ mock.Mock }

func (m *MockFulfillmentUpdater) Handle(
	ctx context.Context,
	cmd commands.ApplyFulfillmentUpdatesCommand,
) (commands.FulfillmentUpdateResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.FulfillmentUpdateResult), args.Error(1)
}

type MockOrderGetter struct{ mock.Mock }

func (m *MockOrderGetter) Handle(ctx context.Context, query queries.GetOrderQuery) (views.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(views.OrderView), args.Error(1)
}

type MockOrderLister struct{ mock.Mock }

func (m *MockOrderLister) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]views.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]views.OrderView), args.Error(1)
}

type MockTeamOrderLister struct{ mock.Mock }

func (m *MockTeamOrderLister) Handle(ctx context.Context, query queries.GetTeamOrdersQuery) ([]views.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]views.OrderView), args.Error(1)
}

type MockProgressGetter struct{ mock.Mock }

func (m *MockProgressGetter) Handle(ctx context.Context, query queries.GetOrderProgressQuery) (views.ProgressView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(views.ProgressView), args.Error(1)
}

type testHandlers struct {
	creator  *MockOrderCreator
	editor   *MockOrderEditor
	deleter  *MockOrderDeleter
	updater  *MockFulfillmentUpdater
	getter   *MockOrderGetter
	lister   *MockOrderLister
	team     *MockTeamOrderLister
	progress *MockProgressGetter
}

func newTestHandlers() *testHandlers {
	return &testHandlers{
		creator:  new(MockOrderCreator),
		editor:   new(MockOrderEditor),
		deleter:  new(MockOrderDeleter),
		updater:  new(MockFulfillmentUpdater),
		getter:   new(MockOrderGetter),
		lister:   new(MockOrderLister),
		team:     new(MockTeamOrderLister),
		progress: new(MockProgressGetter),
	}
}

func (h *testHandlers) handlers() Handlers {
	return Handlers{
		CreateOrder:   h.creator,
		EditOrder:     h.editor,
		DeleteOrder:   h.deleter,
		ApplyUpdates:  h.updater,
		GetOrder:      h.getter,
		ListOrders:    h.lister,
		GetTeamOrders: h.team,
		GetProgress:   h.progress,
	}
}
