package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityExceededError(t *testing.T) {
	err := errs.NewCapacityExceededError("a-1", 15, 10)

	assert.Equal(t, "a-1", err.AssignmentID)
	assert.Equal(t, 15, err.Requested)
	assert.Equal(t, 10, err.Remaining)
	assert.Equal(t, "capacity exceeded: assignment a-1 requested 15, remaining 10", err.Error())
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)
}

func TestObjectAlreadyExistsError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectAlreadyExistsError("orderNumber", "PO-1")
		assert.Equal(t, "object already exists: orderNumber PO-1", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewObjectAlreadyExistsErrorWithCause("orderNumber", "PO-1", errors.New("duplicate key"))
		assert.Equal(t, "object already exists: orderNumber PO-1 (cause: duplicate key)", err.Error())
	})
}

func TestConflictError(t *testing.T) {
	t.Run("stale view is not retryable", func(t *testing.T) {
		err := errs.NewConflictError("assignment a-1", "expected total 40, actual 50")

		assert.False(t, err.Retryable)
		assert.Equal(t, "conflict: assignment a-1: expected total 40, actual 50", err.Error())
		assert.False(t, errs.IsRetryable(err))
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("store conflict is retryable through wrapping", func(t *testing.T) {
		err := errs.NewRetryableConflictError("order PO-1", errors.New("could not serialize access"))
		wrapped := fmt.Errorf("apply updates: %w", err)

		assert.True(t, errs.IsRetryable(wrapped))
		assert.Contains(t, err.Error(), "could not serialize access")
	})

	t.Run("plain errors are not retryable", func(t *testing.T) {
		assert.False(t, errs.IsRetryable(errors.New("boom")))
		assert.False(t, errs.IsRetryable(nil))
	})
}

func TestStoreFaultError(t *testing.T) {
	err := errs.NewStoreFaultError("commit", errors.New("connection reset"))

	assert.Equal(t, "store fault: commit (cause: connection reset)", err.Error())
	require.ErrorIs(t, err, errs.ErrStoreFault)
	assert.Equal(t, "store fault: begin", errs.NewStoreFaultError("begin", nil).Error())
}

func TestIsInvalidRequest(t *testing.T) {
	assert.True(t, errs.IsInvalidRequest(errs.NewValueIsRequiredError("author")))
	assert.True(t, errs.IsInvalidRequest(errs.NewValueIsInvalidError("quantity")))
	assert.True(t, errs.IsInvalidRequest(errs.NewValueIsOutOfRangeError("quantity", 0, 1, 10)))
	assert.False(t, errs.IsInvalidRequest(errs.NewObjectNotFoundError("order", "PO-1")))
	assert.False(t, errs.IsInvalidRequest(errs.NewCapacityExceededError("a", 1, 0)))
}
