package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func serumItems() []commands.ItemInput {
	return []commands.ItemInput{{
		Name: "Serum bottle",
		Assignments: []commands.AssignmentInput{
			{Category: kernel.Glass, SpecName: "Amber 30ml", Attributes: map[string]string{"neck_size": "18mm"}, Quantity: 100},
			{Category: kernel.Caps, SpecName: "Dropper cap", Quantity: 100},
		},
	}}
}

func newEntry(t *testing.T, qty int) order.Entry {
	t.Helper()
	e, err := order.NewEntry(kernel.NewUUID(), qty, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), "line-3")
	require.NoError(t, err)
	return e
}

// createOrder runs the create handler against store and returns the committed order.
func createOrder(t *testing.T, store *memoryStore, number string, items []commands.ItemInput) *order.Order {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(number, "Dana", "Acme Cosmetics", items, nil)
	require.NoError(t, err)
	h := commands.NewCreateOrderCommandHandler(orderFactory{store})
	created, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return store.order(created.Number())
}

// onlyAssignment returns the single assignment of category c on the item at position i.
func onlyAssignment(t *testing.T, o *order.Order, i int, c kernel.Category) *order.Assignment {
	t.Helper()
	items := o.Items()
	require.Greater(t, len(items), i)
	assignments := items[i].Assignments(c)
	require.Len(t, assignments, 1)
	return assignments[0]
}

func progress(t *testing.T, a *order.Assignment, qty int) commands.ProgressUpdate {
	t.Helper()
	return commands.ProgressUpdate{AssignmentID: a.ID(), Entry: newEntry(t, qty)}
}

func applyUpdates(
	t *testing.T,
	store *memoryStore,
	o *order.Order,
	itemID kernel.UUID,
	verdict *order.QCStatus,
	updates ...commands.ProgressUpdate,
) (commands.FulfillmentUpdateResult, error) {
	t.Helper()
	cmd, err := commands.NewApplyFulfillmentUpdatesCommand(o.Number().String(), &itemID, updates, verdict)
	require.NoError(t, err)
	return commands.NewApplyFulfillmentUpdatesCommandHandler(store, 0).Handle(t.Context(), cmd)
}

func qc(v order.QCStatus) *order.QCStatus { return &v }
