package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// DroppedProgress describes ledger state that an order edit could not carry over
// because no new assignment matched the old one's identity key. Those units are
// lost from the order and must be surfaced to the operator.
type DroppedProgress struct {
	ItemName       string
	AssignmentID   kernel.UUID
	Category       kernel.Category
	SpecName       string
	TotalCompleted int
}

// CarryResult summarizes one ledger carry-over.
type CarryResult struct {
	Carried int
	Dropped []DroppedProgress
}

// LedgerCarrier matches the assignments of an order before and after an edit and
// moves each old ledger onto its successor.
//
// Matching is by composite key: item name, category, team, spec name and spec
// attributes. When several old assignments share a key they are matched to new
// ones in order of appearance. Matching is best effort: renaming an item or
// changing a spec attribute breaks the match and the progress is reported in
// CarryResult.Dropped.
type LedgerCarrier struct{}

// NewLedgerCarrier creates a LedgerCarrier.
func NewLedgerCarrier() LedgerCarrier {
	return LedgerCarrier{}
}

// Carry moves ledgers from oldItems onto the matching assignments of newItems.
// It fails with errs.CapacityExceededError when a carried total is larger than
// the quantity of its successor; in that case the edit must be rejected.
func (LedgerCarrier) Carry(oldItems, newItems []*order.Item) (CarryResult, error) {
	type candidate struct {
		item       *order.Item
		assignment *order.Assignment
		used       bool
	}

	byKey := make(map[string][]*candidate)
	all := make([]*candidate, 0)
	for _, it := range oldItems {
		for _, a := range it.AllAssignments() {
			c := &candidate{item: it, assignment: a}
			key := it.AssignmentKey(a)
			byKey[key] = append(byKey[key], c)
			all = append(all, c)
		}
	}

	var result CarryResult
	for _, it := range newItems {
		for _, a := range it.AllAssignments() {
			for _, c := range byKey[it.AssignmentKey(a)] {
				if c.used {
					continue
				}
				c.used = true
				if c.assignment.TotalCompleted() > 0 {
					if err := a.CarryLedgerFrom(c.assignment); err != nil {
						return CarryResult{}, err
					}
					result.Carried++
				}
				break
			}
		}
	}

	for _, c := range all {
		if c.used || c.assignment.TotalCompleted() == 0 {
			continue
		}
		result.Dropped = append(result.Dropped, DroppedProgress{
			ItemName:       c.item.Name(),
			AssignmentID:   c.assignment.ID(),
			Category:       c.assignment.Category(),
			SpecName:       c.assignment.Spec().Name(),
			TotalCompleted: c.assignment.TotalCompleted(),
		})
	}

	return result, nil
}
