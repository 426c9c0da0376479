package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func mustNumber(t *testing.T, s string) kernel.OrderNumber {
	t.Helper()
	n, err := kernel.NewOrderNumber(s)
	require.NoError(t, err)
	return n
}

func mustSpec(t *testing.T, c kernel.Category, name string) order.Spec {
	t.Helper()
	s, err := order.NewSpec(c, name, nil)
	require.NoError(t, err)
	return s
}

func mustAssignment(t *testing.T, itemID kernel.UUID, c kernel.Category, name string, qty int) *order.Assignment {
	t.Helper()
	a, err := order.NewAssignment(kernel.NewUUID(), itemID, c, "", mustSpec(t, c, name), qty)
	require.NoError(t, err)
	return a
}

func mustEntry(t *testing.T, qty int) order.Entry {
	t.Helper()
	e, err := order.NewEntry(kernel.NewUUID(), qty, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), "line-3")
	require.NoError(t, err)
	return e
}
