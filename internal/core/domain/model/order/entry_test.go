package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

	t.Run("valid entry is normalized", func(t *testing.T) {
		id := kernel.NewUUID()
		e, err := order.NewEntry(id, 25, at, "  glass-team ")

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.True(t, id.IsEqual(e.ID()))
		assert.Equal(t, 25, e.Quantity())
		assert.Equal(t, time.UTC, e.RecordedAt().Location())
		assert.Equal(t, "glass-team", e.Author())
	})

	t.Run("zero and negative quantities are invalid", func(t *testing.T) {
		_, err := order.NewEntry(kernel.NewUUID(), 0, at, "a")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.NewEntry(kernel.NewUUID(), -3, at, "a")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("all problems are reported together", func(t *testing.T) {
		_, err := order.NewEntry(kernel.UUID{}, 0, time.Time{}, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		require.ErrorIs(t, order.Entry{}.Validate(), order.ErrEntryIsNotConstructed)
	})
}
