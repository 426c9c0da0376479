package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignment(t *testing.T) {
	itemID := kernel.NewUUID()

	t.Run("starts pending with empty ledger and default team", func(t *testing.T) {
		a := mustAssignment(t, itemID, kernel.Caps, "Flip cap 24mm", 100)

		assert.Equal(t, order.Pending, a.Status())
		assert.Equal(t, 0, a.TotalCompleted())
		assert.Equal(t, 100, a.Remaining())
		assert.Equal(t, "Caps", a.Team())
		assert.Empty(t, a.Entries())
	})

	t.Run("quantity must be positive", func(t *testing.T) {
		_, err := order.NewAssignment(kernel.NewUUID(), itemID, kernel.Caps, "", mustSpec(t, kernel.Caps, "x"), 0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("spec attributes follow the category vocabulary", func(t *testing.T) {
		_, err := order.NewSpec(kernel.Boxes, "Carton", map[string]string{"neck_size": "18mm"})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		spec, err := order.NewSpec(kernel.Boxes, "Carton", map[string]string{"approval_code": "AC-9", "": ""})
		require.NoError(t, err)
		assert.Equal(t, "AC-9", spec.Attribute("approval_code"))
	})
}

func TestAssignment_RecordProgress(t *testing.T) {
	itemID := kernel.NewUUID()

	t.Run("ledger total equals sum of entries", func(t *testing.T) {
		a := mustAssignment(t, itemID, kernel.Glass, "Amber 100ml", 100)

		for _, q := range []int{10, 25, 5} {
			applied, err := a.RecordProgress(mustEntry(t, q))
			require.NoError(t, err)
			assert.True(t, applied)
		}

		sum := 0
		for _, e := range a.Entries() {
			sum += e.Quantity()
		}
		assert.Equal(t, 40, a.TotalCompleted())
		assert.Equal(t, sum, a.TotalCompleted())
		assert.Len(t, a.NewEntries(), 3)
		assert.Equal(t, order.Pending, a.Status())
	})

	t.Run("reaching quantity completes the assignment", func(t *testing.T) {
		a := mustAssignment(t, itemID, kernel.Glass, "Amber 100ml", 100)

		_, err := a.RecordProgress(mustEntry(t, 40))
		require.NoError(t, err)
		assert.Equal(t, order.Pending, a.Status())

		_, err = a.RecordProgress(mustEntry(t, 60))
		require.NoError(t, err)
		assert.Equal(t, order.Completed, a.Status())
		assert.Equal(t, 0, a.Remaining())
	})

	t.Run("overshoot is rejected and nothing changes", func(t *testing.T) {
		a := mustAssignment(t, itemID, kernel.Glass, "Amber 100ml", 100)
		_, err := a.RecordProgress(mustEntry(t, 90))
		require.NoError(t, err)
		a.MarkEntriesPersisted()

		applied, err := a.RecordProgress(mustEntry(t, 15))

		require.ErrorIs(t, err, errs.ErrCapacityExceeded)
		assert.False(t, applied)
		var capErr *errs.CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 15, capErr.Requested)
		assert.Equal(t, 10, capErr.Remaining)
		assert.Equal(t, a.ID().String(), capErr.AssignmentID)
		assert.Equal(t, 90, a.TotalCompleted())
		assert.Len(t, a.Entries(), 1)
		assert.Empty(t, a.NewEntries())
	})

	t.Run("completed assignment accepts nothing more", func(t *testing.T) {
		a := mustAssignment(t, itemID, kernel.Pumps, "Lotion pump", 5)
		_, err := a.RecordProgress(mustEntry(t, 5))
		require.NoError(t, err)

		_, err = a.RecordProgress(mustEntry(t, 1))
		require.ErrorIs(t, err, errs.ErrCapacityExceeded)
		assert.Equal(t, order.Completed, a.Status())
	})

	t.Run("replaying an entry id is a no-op", func(t *testing.T) {
		a := mustAssignment(t, itemID, kernel.Glass, "Amber 100ml", 100)
		e := mustEntry(t, 30)

		applied, err := a.RecordProgress(e)
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = a.RecordProgress(e)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, 30, a.TotalCompleted())
		assert.Len(t, a.Entries(), 1)
	})

	t.Run("unconstructed entry is rejected", func(t *testing.T) {
		a := mustAssignment(t, itemID, kernel.Glass, "Amber 100ml", 100)
		_, err := a.RecordProgress(order.Entry{})
		require.ErrorIs(t, err, order.ErrEntryIsNotConstructed)
	})
}

func TestRestoreAssignment(t *testing.T) {
	itemID := kernel.NewUUID()
	spec := mustSpec(t, kernel.Glass, "Amber 100ml")
	entries := []order.Entry{mustEntry(t, 60), mustEntry(t, 40)}

	t.Run("consistent ledger restores", func(t *testing.T) {
		a, err := order.RestoreAssignment(kernel.NewUUID(), itemID, kernel.Glass, "Glass", spec, 100,
			order.Completed, 100, entries)

		require.NoError(t, err)
		assert.Equal(t, order.Completed, a.Status())
		assert.Empty(t, a.NewEntries())
		assert.True(t, a.HasEntry(entries[0].ID()))
	})

	t.Run("total must match entries", func(t *testing.T) {
		_, err := order.RestoreAssignment(kernel.NewUUID(), itemID, kernel.Glass, "Glass", spec, 100,
			order.Completed, 90, entries)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("status must match total", func(t *testing.T) {
		_, err := order.RestoreAssignment(kernel.NewUUID(), itemID, kernel.Glass, "Glass", spec, 100,
			order.Pending, 100, entries)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("total cannot exceed quantity", func(t *testing.T) {
		_, err := order.RestoreAssignment(kernel.NewUUID(), itemID, kernel.Glass, "Glass", spec, 50,
			order.Completed, 100, entries)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestAssignment_CarryLedgerFrom(t *testing.T) {
	itemID := kernel.NewUUID()

	old := mustAssignment(t, itemID, kernel.Glass, "Amber 100ml", 100)
	_, err := old.RecordProgress(mustEntry(t, 100))
	require.NoError(t, err)
	require.Equal(t, order.Completed, old.Status())

	t.Run("larger quantity reverts to pending", func(t *testing.T) {
		replacement := mustAssignment(t, kernel.NewUUID(), kernel.Glass, "Amber 100ml", 150)

		require.NoError(t, replacement.CarryLedgerFrom(old))
		assert.Equal(t, 100, replacement.TotalCompleted())
		assert.Equal(t, order.Pending, replacement.Status())
		assert.Len(t, replacement.NewEntries(), 1)
	})

	t.Run("smaller quantity than carried total is capacity exceeded", func(t *testing.T) {
		replacement := mustAssignment(t, kernel.NewUUID(), kernel.Glass, "Amber 100ml", 80)

		err := replacement.CarryLedgerFrom(old)
		require.ErrorIs(t, err, errs.ErrCapacityExceeded)
		assert.Equal(t, 0, replacement.TotalCompleted())
	})

	t.Run("identity key ignores name case and attribute order", func(t *testing.T) {
		s1, _ := order.NewSpec(kernel.Caps, "Flip Cap", map[string]string{"material": "PP", "neck_size": "24"})
		s2, _ := order.NewSpec(kernel.Caps, "flip cap", map[string]string{"neck_size": "24", "material": "PP"})
		a1, _ := order.NewAssignment(kernel.NewUUID(), itemID, kernel.Caps, "", s1, 10)
		a2, _ := order.NewAssignment(kernel.NewUUID(), itemID, kernel.Caps, "caps", s2, 20)

		assert.Equal(t, a1.IdentityKey(), a2.IdentityKey())
	})
}
