package queries_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

// newTestOrder builds an order with one item holding a glass and a caps assignment.
func newTestOrder(t *testing.T, number string, glassDone int) *order.Order {
	t.Helper()
	n, err := kernel.NewOrderNumber(number)
	require.NoError(t, err)
	itemID := kernel.NewUUID()

	glassSpec, err := order.NewSpec(kernel.Glass, "Amber 30ml", nil)
	require.NoError(t, err)
	glass, err := order.NewAssignment(kernel.NewUUID(), itemID, kernel.Glass, "", glassSpec, 100)
	require.NoError(t, err)
	if glassDone > 0 {
		e, entryErr := order.NewEntry(kernel.NewUUID(), glassDone, testTime, "line-1")
		require.NoError(t, entryErr)
		_, err = glass.RecordProgress(e)
		require.NoError(t, err)
	}
	capSpec, err := order.NewSpec(kernel.Caps, "Dropper", nil)
	require.NoError(t, err)
	caps, err := order.NewAssignment(kernel.NewUUID(), itemID, kernel.Caps, "", capSpec, 100)
	require.NoError(t, err)

	item, err := order.NewItem(itemID, n, "Serum bottle", 0, []*order.Assignment{glass, caps})
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), n, "Dana", "Acme", []*order.Item{item}, nil)
	require.NoError(t, err)
	return o
}
