package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	number := mustNumber(t, "PO-7")
	itemID := kernel.NewUUID()
	glass := mustAssignment(t, itemID, kernel.Glass, "Amber 100ml", 100)
	caps := mustAssignment(t, itemID, kernel.Caps, "Flip cap", 100)

	t.Run("groups assignments and starts applicable categories pending", func(t *testing.T) {
		it, err := order.NewItem(itemID, number, "Serum bottle", 0, []*order.Assignment{caps, glass})

		require.NoError(t, err)
		assert.Equal(t, []kernel.Category{kernel.Glass, kernel.Caps}, it.Categories())
		s, ok := it.CategoryStatus(kernel.Glass)
		assert.True(t, ok)
		assert.Equal(t, order.Pending, s)
		_, ok = it.CategoryStatus(kernel.Boxes)
		assert.False(t, ok)
		assert.Len(t, it.AllAssignments(), 2)
	})

	t.Run("assignments of another item are rejected", func(t *testing.T) {
		foreign := mustAssignment(t, kernel.NewUUID(), kernel.Boxes, "Carton", 10)

		_, err := order.NewItem(itemID, number, "Serum bottle", 0, []*order.Assignment{foreign})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("duplicate assignment is rejected", func(t *testing.T) {
		_, err := order.NewItem(itemID, number, "Serum bottle", 0, []*order.Assignment{glass, glass})
		require.Error(t, err)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := order.NewItem(itemID, number, " ", 0, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestItem_AdvanceCategory(t *testing.T) {
	itemID := kernel.NewUUID()
	it, err := order.NewItem(itemID, mustNumber(t, "PO-7"), "Serum bottle", 0,
		[]*order.Assignment{mustAssignment(t, itemID, kernel.Glass, "Amber", 10)})
	require.NoError(t, err)

	changed, err := it.AdvanceCategory(kernel.Glass, order.InProgress)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = it.AdvanceCategory(kernel.Glass, order.Pending)
	require.NoError(t, err)
	assert.False(t, changed)
	s, _ := it.CategoryStatus(kernel.Glass)
	assert.Equal(t, order.InProgress, s)

	changed, err = it.AdvanceCategory(kernel.Glass, order.Completed)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = it.AdvanceCategory(kernel.Glass, order.Completed)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = it.AdvanceCategory(kernel.Pumps, order.Completed)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	require.NoError(t, it.ResetCategory(kernel.Glass, order.Pending))
	s, _ = it.CategoryStatus(kernel.Glass)
	assert.Equal(t, order.Pending, s)
}

func TestRestoreItem_DropsStatusesOfEmptyCategories(t *testing.T) {
	itemID := kernel.NewUUID()
	it, err := order.RestoreItem(itemID, mustNumber(t, "PO-7"), "Serum bottle", 1,
		[]*order.Assignment{mustAssignment(t, itemID, kernel.Glass, "Amber", 10)},
		map[kernel.Category]order.Status{kernel.Glass: order.InProgress, kernel.Boxes: order.Completed},
	)

	require.NoError(t, err)
	assert.Equal(t, map[kernel.Category]order.Status{kernel.Glass: order.InProgress}, it.TeamStatus())
	assert.Equal(t, 1, it.Position())
}

func TestItem_AssignmentKeyIncludesItemName(t *testing.T) {
	itemID := kernel.NewUUID()
	a := mustAssignment(t, itemID, kernel.Glass, "Amber", 10)
	it1, _ := order.NewItem(itemID, mustNumber(t, "PO-7"), "Serum", 0, []*order.Assignment{a})
	it2, _ := order.NewItem(itemID, mustNumber(t, "PO-7"), "Toner", 0, []*order.Assignment{a})

	assert.NotEqual(t, it1.AssignmentKey(a), it2.AssignmentKey(a))
}
