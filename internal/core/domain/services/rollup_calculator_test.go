package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestRollupCalculator_CategoryStatus(t *testing.T) {
	rollup := services.NewRollupCalculator()
	itemID := kernel.NewUUID()

	tests := []struct {
		name       string
		build      func() []*order.Assignment
		expected   order.Status
		applicable bool
	}{
		{
			name:       "empty category is not applicable",
			build:      func() []*order.Assignment { return nil },
			expected:   order.Completed,
			applicable: false,
		},
		{
			name: "untouched assignments are pending",
			build: func() []*order.Assignment {
				return []*order.Assignment{newAssignment(t, itemID, kernel.Glass, "A", 10, 0)}
			},
			expected:   order.Pending,
			applicable: true,
		},
		{
			name: "one of two completed is in progress",
			build: func() []*order.Assignment {
				return []*order.Assignment{
					newAssignment(t, itemID, kernel.Glass, "A", 50, 50),
					newAssignment(t, itemID, kernel.Glass, "B", 50, 0),
				}
			},
			expected:   order.InProgress,
			applicable: true,
		},
		{
			name: "all completed is completed",
			build: func() []*order.Assignment {
				return []*order.Assignment{
					newAssignment(t, itemID, kernel.Glass, "A", 50, 50),
					newAssignment(t, itemID, kernel.Glass, "B", 50, 50),
				}
			},
			expected:   order.Completed,
			applicable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, applicable := rollup.CategoryStatus(tt.build())
			assert.Equal(t, tt.expected, status)
			assert.Equal(t, tt.applicable, applicable)
		})
	}
}

func TestRollupCalculator_OrderStatus(t *testing.T) {
	rollup := services.NewRollupCalculator()

	t.Run("production done but QC pending is in progress", func(t *testing.T) {
		it := newItem(t, "Serum", func(id kernel.UUID) []*order.Assignment {
			return []*order.Assignment{newAssignment(t, id, kernel.Glass, "A", 100, 100)}
		})

		assert.Equal(t, order.InProgress, rollup.OrderStatus([]*order.Item{it}, order.QCInProgress))
		assert.Equal(t, order.InProgress, rollup.OrderStatus([]*order.Item{it}, order.QCUnset))
		assert.Equal(t, order.Completed, rollup.OrderStatus([]*order.Item{it}, order.QCCompleted))
	})

	t.Run("QC completed before production keeps order open", func(t *testing.T) {
		it := newItem(t, "Serum", func(id kernel.UUID) []*order.Assignment {
			return []*order.Assignment{newAssignment(t, id, kernel.Glass, "A", 100, 0)}
		})

		assert.Equal(t, order.Pending, rollup.OrderStatus([]*order.Item{it}, order.QCCompleted))
	})

	t.Run("categories without assignments never block", func(t *testing.T) {
		glassOnly := newItem(t, "Serum", func(id kernel.UUID) []*order.Assignment {
			return []*order.Assignment{newAssignment(t, id, kernel.Glass, "A", 10, 10)}
		})
		capsOnly := newItem(t, "Toner", func(id kernel.UUID) []*order.Assignment {
			return []*order.Assignment{newAssignment(t, id, kernel.Caps, "C", 5, 5)}
		})

		assert.Equal(t, order.Completed, rollup.OrderStatus([]*order.Item{glassOnly, capsOnly}, order.QCCompleted))
	})

	t.Run("one open category anywhere blocks completion", func(t *testing.T) {
		done := newItem(t, "Serum", func(id kernel.UUID) []*order.Assignment {
			return []*order.Assignment{newAssignment(t, id, kernel.Glass, "A", 10, 10)}
		})
		open := newItem(t, "Toner", func(id kernel.UUID) []*order.Assignment {
			return []*order.Assignment{
				newAssignment(t, id, kernel.Caps, "C", 5, 5),
				newAssignment(t, id, kernel.Boxes, "Carton", 5, 4),
			}
		})

		assert.Equal(t, order.InProgress, rollup.OrderStatus([]*order.Item{done, open}, order.QCCompleted))
	})

	t.Run("rollup is idempotent", func(t *testing.T) {
		it := newItem(t, "Serum", func(id kernel.UUID) []*order.Assignment {
			return []*order.Assignment{newAssignment(t, id, kernel.Glass, "A", 10, 3)}
		})
		items := []*order.Item{it}

		first := rollup.OrderStatus(items, order.QCUnset)
		second := rollup.OrderStatus(items, order.QCUnset)
		assert.Equal(t, first, second)
		assert.Equal(t, rollup.ItemStatuses(it), rollup.ItemStatuses(it))
	})
}
