package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment constructor")

// Assignment is "produce quantity units of spec" for one production team. It is
// exclusively owned by an Item and carries an append-only tracking ledger.
//
// Assignment follows these invariants:
//   - quantity is strictly positive and never changes after creation
//   - totalCompleted equals the sum of the ledger entries and never decreases
//   - totalCompleted never exceeds quantity
//   - status is Completed if and only if totalCompleted has reached quantity
//
// Entries appended since the assignment was loaded are kept apart in newEntries
// so the repository can persist exactly the delta.
type Assignment struct {
	id       kernel.UUID
	itemID   kernel.UUID
	category kernel.Category
	team     string
	spec     Spec
	quantity int

	status         Status
	totalCompleted int
	entries        []Entry
	newEntries     []Entry

	isConstructed bool
}

// NewAssignment creates a Pending assignment with an empty ledger.
//
// Parameters:
//   - id: unique identifier of the assignment
//   - itemID: the owning item
//   - category: production category, which also selects the spec vocabulary
//   - team: responsible team; defaults to the category's team name when blank
//   - spec: what to produce, validated against category by NewSpec
//   - quantity: units to produce, must be positive
//
// Example:
//
//	spec, _ := order.NewSpec(kernel.Glass, "Amber 100ml", map[string]string{"neck_size": "18mm"})
//	a, err := order.NewAssignment(kernel.NewUUID(), itemID, kernel.Glass, "", spec, 100)
func NewAssignment(
	id kernel.UUID,
	itemID kernel.UUID,
	category kernel.Category,
	team string,
	spec Spec,
	quantity int,
) (*Assignment, error) {
	a := &Assignment{
		status:        Pending,
		entries:       make([]Entry, 0),
		isConstructed: true,
	}

	if err := errors.Join(
		a.setID(id),
		a.setItemID(itemID),
		a.setCategory(category),
		a.setSpec(spec),
		a.setQuantity(quantity),
	); err != nil {
		return nil, err
	}
	a.setTeam(team)

	return a, nil
}

// RestoreAssignment rebuilds an assignment from persistence. The ledger is checked
// against the stored total and status so that corrupted rows surface as errors
// instead of silently feeding the rollup.
func RestoreAssignment(
	id kernel.UUID,
	itemID kernel.UUID,
	category kernel.Category,
	team string,
	spec Spec,
	quantity int,
	status Status,
	totalCompleted int,
	entries []Entry,
) (*Assignment, error) {
	a, err := NewAssignment(id, itemID, category, team, spec, quantity)
	if err != nil {
		return nil, err
	}

	if err = status.ValidateForAssignment(); err != nil {
		return nil, err
	}

	sum := 0
	for _, e := range entries {
		if err = e.Validate(); err != nil {
			return nil, err
		}
		sum += e.Quantity()
	}
	if sum != totalCompleted {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"assignment ledger",
			fmt.Errorf("assignment %s total %d does not match entries sum %d", id, totalCompleted, sum),
		)
	}
	if totalCompleted > quantity {
		return nil, errs.NewValueIsOutOfRangeError("assignment total completed", totalCompleted, 0, quantity)
	}
	if status.IsCompleted() != (totalCompleted >= quantity) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"assignment status",
			fmt.Errorf("assignment %s is %s with %d of %d units", id, status, totalCompleted, quantity),
		)
	}

	a.status = status
	a.totalCompleted = totalCompleted
	a.entries = append(a.entries, entries...)
	return a, nil
}

// Validate ensures the assignment was created through a constructor.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// IsEqual compares assignments by identifier.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment identifier.
func (a *Assignment) ID() kernel.UUID { return a.id }

// ItemID returns the owning item.
func (a *Assignment) ItemID() kernel.UUID { return a.itemID }

// Category returns the production category.
func (a *Assignment) Category() kernel.Category { return a.category }

// Team returns the responsible production team.
func (a *Assignment) Team() string { return a.team }

// Spec returns what has to be produced.
func (a *Assignment) Spec() Spec { return a.spec }

// Quantity returns the ordered number of units.
func (a *Assignment) Quantity() int { return a.quantity }

// Status returns Pending or Completed.
func (a *Assignment) Status() Status { return a.status }

// TotalCompleted returns the number of units reported so far.
func (a *Assignment) TotalCompleted() int { return a.totalCompleted }

// Remaining returns how many units may still be reported.
func (a *Assignment) Remaining() int { return a.quantity - a.totalCompleted }

// Entries returns a copy of the full ledger, oldest first.
func (a *Assignment) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// NewEntries returns the entries appended since the assignment was created or
// restored and not yet acknowledged by MarkEntriesPersisted.
func (a *Assignment) NewEntries() []Entry {
	out := make([]Entry, len(a.newEntries))
	copy(out, a.newEntries)
	return out
}

// MarkEntriesPersisted acknowledges that NewEntries have been written.
func (a *Assignment) MarkEntriesPersisted() {
	a.newEntries = nil
}

// HasEntry reports whether the ledger already holds an entry with the given ID.
func (a *Assignment) HasEntry(id kernel.UUID) bool {
	for _, e := range a.entries {
		if e.ID().IsEqual(id) {
			return true
		}
	}
	return false
}

// RecordProgress appends a completion entry to the ledger.
//
// Business rules:
//   - an entry whose ID is already in the ledger is a replay: nothing changes
//     and applied is false
//   - an entry larger than Remaining fails with a CapacityExceededError and
//     leaves the ledger untouched; the quantity is never clamped
//   - status becomes Completed when the total reaches quantity and otherwise
//     keeps its prior value
//
// Example:
//
//	applied, err := a.RecordProgress(entry)
//	if errors.Is(err, errs.ErrCapacityExceeded) {
//	    // reject the whole update
//	}
func (a *Assignment) RecordProgress(entry Entry) (applied bool, err error) {
	if err = entry.Validate(); err != nil {
		return false, err
	}

	if a.HasEntry(entry.ID()) {
		return false, nil
	}

	if remaining := a.Remaining(); entry.Quantity() > remaining {
		return false, errs.NewCapacityExceededError(a.id.String(), entry.Quantity(), remaining)
	}

	a.entries = append(a.entries, entry)
	a.newEntries = append(a.newEntries, entry)
	a.totalCompleted += entry.Quantity()
	if a.totalCompleted >= a.quantity {
		a.status = Completed
	}

	return true, nil
}

// CarryLedgerFrom moves the ledger of a replaced assignment onto a when an order
// edit recreates it. All carried entries count as new for persistence because a
// is a new record. Status is recomputed from the carried total, so it may go
// back from Completed to Pending if the new quantity is larger.
func (a *Assignment) CarryLedgerFrom(old *Assignment) error {
	if err := old.Validate(); err != nil {
		return err
	}
	if a.totalCompleted != 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment ledger",
			fmt.Errorf("assignment %s already has progress", a.id),
		)
	}
	if old.totalCompleted > a.quantity {
		return errs.NewCapacityExceededError(a.id.String(), old.totalCompleted, a.quantity)
	}

	a.entries = old.Entries()
	a.newEntries = old.Entries()
	a.totalCompleted = old.totalCompleted
	a.status = Pending
	if a.totalCompleted >= a.quantity {
		a.status = Completed
	}
	return nil
}

// IdentityKey is the stable composite key used to match an assignment across an
// order edit: team, category, product name (case-insensitive) and the sorted
// spec attributes. The owning item's name is added by Item.
func (a *Assignment) IdentityKey() string {
	return strings.Join([]string{a.category.String(), strings.ToLower(a.team), a.spec.canonical()}, "|")
}

func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Assignment) setItemID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("assignment item", err)
	}
	a.itemID = id
	return nil
}

func (a *Assignment) setCategory(category kernel.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	a.category = category
	return nil
}

func (a *Assignment) setTeam(team string) {
	a.team = strings.TrimSpace(team)
	if a.team == "" {
		a.team = a.category.TeamName()
	}
}

func (a *Assignment) setSpec(spec Spec) error {
	if spec.Name() == "" {
		return errs.NewValueIsRequiredError("assignment spec")
	}
	a.spec = spec
	return nil
}

func (a *Assignment) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("assignment quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	a.quantity = quantity
	return nil
}
