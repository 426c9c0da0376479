package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNumber, _ = kernel.NewOrderNumber("PO-55")

func newAssignment(t *testing.T, itemID kernel.UUID, c kernel.Category, name string, qty, done int) *order.Assignment {
	t.Helper()
	spec, err := order.NewSpec(c, name, nil)
	require.NoError(t, err)
	a, err := order.NewAssignment(kernel.NewUUID(), itemID, c, "", spec, qty)
	require.NoError(t, err)
	if done > 0 {
		e, err := order.NewEntry(kernel.NewUUID(), done, time.Now(), "tester")
		require.NoError(t, err)
		_, err = a.RecordProgress(e)
		require.NoError(t, err)
	}
	return a
}

func newItem(t *testing.T, name string, build func(itemID kernel.UUID) []*order.Assignment) *order.Item {
	t.Helper()
	id := kernel.NewUUID()
	it, err := order.NewItem(id, testNumber, name, 0, build(id))
	require.NoError(t, err)
	return it
}

func newOrder(t *testing.T, items ...*order.Item) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), testNumber, "Dana", "Acme", items, nil)
	require.NoError(t, err)
	return o
}
