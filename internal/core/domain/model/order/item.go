package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem constructor")

// Item is one line of an order. It groups the assignments of every production
// category and keeps a per-category status alongside them.
//
// Item follows these invariants:
//   - it belongs to exactly one order, referenced by order number
//   - every assignment is owned by the item (assignment.ItemID equals the item ID)
//   - a category status exists exactly for the categories that have assignments
//   - a category status of Completed implies every assignment of the category is Completed
type Item struct {
	id          kernel.UUID
	orderNumber kernel.OrderNumber
	name        string
	position    int

	assignments map[kernel.Category][]*Assignment
	teamStatus  map[kernel.Category]Status

	isConstructed bool
}

// NewItem creates an item with the given assignments. Category statuses start
// Pending for every category that has at least one assignment.
func NewItem(
	id kernel.UUID,
	orderNumber kernel.OrderNumber,
	name string,
	position int,
	assignments []*Assignment,
) (*Item, error) {
	it := &Item{
		position:      position,
		assignments:   make(map[kernel.Category][]*Assignment),
		teamStatus:    make(map[kernel.Category]Status),
		isConstructed: true,
	}

	if err := errors.Join(
		it.setID(id),
		it.setOrderNumber(orderNumber),
		it.setName(name),
	); err != nil {
		return nil, err
	}

	for _, a := range assignments {
		if err := it.attach(a); err != nil {
			return nil, err
		}
	}
	for c := range it.assignments {
		it.teamStatus[c] = Pending
	}

	return it, nil
}

// RestoreItem rebuilds an item from persistence with its stored category statuses.
// Statuses for categories without assignments are discarded.
func RestoreItem(
	id kernel.UUID,
	orderNumber kernel.OrderNumber,
	name string,
	position int,
	assignments []*Assignment,
	teamStatus map[kernel.Category]Status,
) (*Item, error) {
	it, err := NewItem(id, orderNumber, name, position, assignments)
	if err != nil {
		return nil, err
	}

	for c, s := range teamStatus {
		if _, ok := it.teamStatus[c]; !ok {
			continue
		}
		if err = s.Validate(); err != nil {
			return nil, err
		}
		it.teamStatus[c] = s
	}

	return it, nil
}

// Validate ensures the item was created through a constructor.
func (it *Item) Validate() error {
	if it == nil || !it.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// IsEqual compares items by identifier.
func (it *Item) IsEqual(other *Item) bool {
	return other != nil && it.id.IsEqual(other.id)
}

// ID returns the item identifier.
func (it *Item) ID() kernel.UUID { return it.id }

// OrderNumber returns the owning order's number.
func (it *Item) OrderNumber() kernel.OrderNumber { return it.orderNumber }

// Name returns the display name.
func (it *Item) Name() string { return it.name }

// Position returns the item's index within the order.
func (it *Item) Position() int { return it.position }

// Categories returns the categories that have assignments, in canonical order.
func (it *Item) Categories() []kernel.Category {
	out := make([]kernel.Category, 0, len(it.assignments))
	for _, c := range kernel.AllCategories() {
		if len(it.assignments[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Assignments returns the assignments of one category in creation order.
func (it *Item) Assignments(category kernel.Category) []*Assignment {
	out := make([]*Assignment, len(it.assignments[category]))
	copy(out, it.assignments[category])
	return out
}

// AllAssignments returns every assignment of the item, grouped by category in canonical order.
func (it *Item) AllAssignments() []*Assignment {
	out := make([]*Assignment, 0)
	for _, c := range it.Categories() {
		out = append(out, it.assignments[c]...)
	}
	return out
}

// Assignment finds an assignment of the item by ID.
func (it *Item) Assignment(id kernel.UUID) (*Assignment, bool) {
	for _, list := range it.assignments {
		for _, a := range list {
			if a.ID().IsEqual(id) {
				return a, true
			}
		}
	}
	return nil, false
}

// CategoryStatus returns the status of a category. ok is false when the item has
// no assignment in that category, which makes the category not applicable.
func (it *Item) CategoryStatus(category kernel.Category) (status Status, ok bool) {
	status, ok = it.teamStatus[category]
	return status, ok
}

// TeamStatus returns a copy of all category statuses.
func (it *Item) TeamStatus() map[kernel.Category]Status {
	out := make(map[kernel.Category]Status, len(it.teamStatus))
	for c, s := range it.teamStatus {
		out[c] = s
	}
	return out
}

// AdvanceCategory moves a category status forward to status. A status that is not
// ahead of the stored one is ignored, so the call is idempotent and never regresses
// a category. changed reports whether anything was written.
func (it *Item) AdvanceCategory(category kernel.Category, status Status) (changed bool, err error) {
	current, ok := it.teamStatus[category]
	if !ok {
		return false, errs.NewObjectNotFoundError("item category", fmt.Sprintf("%s/%s", it.id, category))
	}
	if err = status.Validate(); err != nil {
		return false, err
	}
	if !status.IsAhead(current) {
		return false, nil
	}
	it.teamStatus[category] = status
	return true, nil
}

// ResetCategory overwrites a category status in either direction. It is reserved
// for administrative edits that recreate the item.
func (it *Item) ResetCategory(category kernel.Category, status Status) error {
	if _, ok := it.teamStatus[category]; !ok {
		return errs.NewObjectNotFoundError("item category", fmt.Sprintf("%s/%s", it.id, category))
	}
	if err := status.Validate(); err != nil {
		return err
	}
	it.teamStatus[category] = status
	return nil
}

// AssignmentKey is the composite key that identifies an assignment of this item
// across an order edit: the lower-cased item name plus the assignment's own key.
func (it *Item) AssignmentKey(a *Assignment) string {
	return strings.ToLower(it.name) + "|" + a.IdentityKey()
}

func (it *Item) attach(a *Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !a.ItemID().IsEqual(it.id) {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment item",
			fmt.Errorf("assignment %s belongs to item %s, not %s", a.ID(), a.ItemID(), it.id),
		)
	}
	if _, exists := it.Assignment(a.ID()); exists {
		return errs.NewValueIsInvalidErrorWithCause("assignment", fmt.Errorf("assignment %s is duplicated", a.ID()))
	}
	it.assignments[a.Category()] = append(it.assignments[a.Category()], a)
	return nil
}

func (it *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	it.id = id
	return nil
}

func (it *Item) setOrderNumber(n kernel.OrderNumber) error {
	if err := n.Validate(); err != nil {
		return err
	}
	it.orderNumber = n
	return nil
}

func (it *Item) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	it.name = name
	return nil
}
