package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// advanceItemCategories moves every category of every item forward to the status
// derived from its assignments and persists the items whose categories moved.
// Categories never regress here; only an order edit may move them back.
func advanceItemCategories(
	ctx context.Context,
	repo ports.ItemRepository,
	rollup services.RollupCalculator,
	items []*order.Item,
) (changed bool, err error) {
	for _, it := range items {
		itemChanged := false
		for _, c := range it.Categories() {
			status, applicable := rollup.CategoryStatus(it.Assignments(c))
			if !applicable {
				continue
			}
			moved, advanceErr := it.AdvanceCategory(c, status)
			if advanceErr != nil {
				return false, advanceErr
			}
			itemChanged = itemChanged || moved
		}
		if !itemChanged {
			continue
		}
		if err = repo.UpdateTeamStatus(ctx, it); err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}
