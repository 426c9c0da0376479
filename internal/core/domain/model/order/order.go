package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the fulfillment domain. It owns an ordered list of
// items, each of which owns its assignments, and carries the order-level status and
// the quality-control verdict.
//
// Order follows these invariants:
//   - the order number is unique and never changes
//   - items belong to this order (item.OrderNumber equals the order number)
//   - status Completed implies every applicable category of every item is Completed
//     and the QC verdict is Completed
//   - outside administrative edits the status only moves forward
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods. Items may be attached lazily: the
// coordinator locks the order row first and loads the item tree afterwards.
type Order struct {
	id           kernel.UUID
	number       kernel.OrderNumber
	dispatcher   string
	customer     string
	status       Status
	qcStatus     QCStatus
	costEstimate *CostEstimate
	createdAt    time.Time

	items []*Item

	events []FulfillmentChanged

	isConstructed bool
}

// NewOrder creates a Pending order with an unset QC verdict.
//
// Parameters:
//   - id: internal identifier
//   - number: unique human-assigned order number
//   - dispatcher: name of the dispatcher who placed the order
//   - customer: name of the customer the order is for
//   - items: the order lines; may be empty
//   - costEstimate: optional price estimate
//
// Example:
//
//	number, _ := kernel.NewOrderNumber("PO-1001")
//	o, err := order.NewOrder(kernel.NewUUID(), number, "Dana", "Acme Cosmetics", items, nil)
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	number kernel.OrderNumber,
	dispatcher string,
	customer string,
	items []*Item,
	costEstimate *CostEstimate,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		qcStatus:      QCUnset,
		costEstimate:  costEstimate,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setDispatcher(dispatcher),
		o.setCustomer(customer),
	); err != nil {
		return nil, err
	}

	if err := o.AttachItems(items); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. Items are attached separately
// with AttachItems because the header and the item tree are loaded independently.
func RestoreOrder(
	id kernel.UUID,
	number kernel.OrderNumber,
	dispatcher string,
	customer string,
	status Status,
	qcStatus QCStatus,
	costEstimate *CostEstimate,
	createdAt time.Time,
) (*Order, error) {
	o, err := NewOrder(id, number, dispatcher, customer, nil, costEstimate)
	if err != nil {
		return nil, err
	}

	if err = errors.Join(status.Validate(), qcStatus.Validate()); err != nil {
		return nil, err
	}

	o.status = status
	o.qcStatus = qcStatus
	o.createdAt = createdAt.UTC()
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the internal identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-assigned order number.
func (o *Order) Number() kernel.OrderNumber { return o.number }

// Dispatcher returns the dispatcher name.
func (o *Order) Dispatcher() string { return o.dispatcher }

// Customer returns the customer name.
func (o *Order) Customer() string { return o.customer }

// Status returns the order-level fulfillment status.
func (o *Order) Status() Status { return o.status }

// QCStatus returns the quality-control verdict.
func (o *Order) QCStatus() QCStatus { return o.qcStatus }

// CostEstimate returns the optional price estimate.
func (o *Order) CostEstimate() *CostEstimate { return o.costEstimate }

// CreatedAt returns when the order was first created.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Items returns the attached items in order.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

// Item finds an attached item by ID.
func (o *Order) Item(id kernel.UUID) (*Item, bool) {
	for _, it := range o.items {
		if it.ID().IsEqual(id) {
			return it, true
		}
	}
	return nil, false
}

// Categories returns the union of the categories used by the attached items, in
// canonical order. It is persisted to answer per-team queries.
func (o *Order) Categories() []kernel.Category {
	seen := make(map[kernel.Category]bool)
	for _, it := range o.items {
		for _, c := range it.Categories() {
			seen[c] = true
		}
	}
	out := make([]kernel.Category, 0, len(seen))
	for _, c := range kernel.AllCategories() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// AttachItems replaces the in-memory item list. Every item must belong to this order.
func (o *Order) AttachItems(items []*Item) error {
	attached := make([]*Item, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if !it.OrderNumber().IsEqual(o.number) {
			return errs.NewValueIsInvalidErrorWithCause(
				"item order",
				fmt.Errorf("item %s belongs to order %s, not %s", it.ID(), it.OrderNumber(), o.number),
			)
		}
		attached = append(attached, it)
	}
	o.items = attached
	return nil
}

// Edit replaces the header fields, the cost estimate and the whole item tree.
// Statuses are left to the caller, which recomputes them with ResetStatus.
func (o *Order) Edit(dispatcher, customer string, items []*Item, costEstimate *CostEstimate) error {
	if err := errors.Join(o.setDispatcher(dispatcher), o.setCustomer(customer)); err != nil {
		return err
	}
	if err := o.AttachItems(items); err != nil {
		return err
	}
	o.costEstimate = costEstimate
	return nil
}

// SetQCVerdict records the quality-control verdict.
//
// Business rules:
//   - once an order is Completed its verdict is final; re-sending Completed is a
//     no-op, anything else is a ConflictError
//   - otherwise any verdict may replace any other
//
// changed reports whether the stored verdict differs from before.
func (o *Order) SetQCVerdict(verdict QCStatus) (changed bool, err error) {
	if err = verdict.Validate(); err != nil {
		return false, err
	}
	if o.status.IsCompleted() && verdict != QCCompleted {
		return false, errs.NewConflictError(
			"order "+o.number.String(),
			fmt.Sprintf("order is completed, QC verdict %s cannot replace %s", verdict, o.qcStatus),
		)
	}
	if o.qcStatus == verdict {
		return false, nil
	}
	o.qcStatus = verdict
	return true, nil
}

// AdvanceStatus moves the order status forward to status. A status that is not
// ahead of the current one is ignored, which makes the call idempotent and records
// the Completed transition at most once. Completing requires the QC verdict to be
// Completed and every applicable category of every attached item to be Completed.
func (o *Order) AdvanceStatus(status Status) (changed bool, err error) {
	if err = status.Validate(); err != nil {
		return false, err
	}
	if !status.IsAhead(o.status) {
		return false, nil
	}
	if status.IsCompleted() {
		if err = o.validateCanComplete(); err != nil {
			return false, err
		}
	}
	o.status = status
	return true, nil
}

// ResetStatus overwrites the status in either direction. It is reserved for
// administrative edits, the only operation allowed to move an order back.
func (o *Order) ResetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status.IsCompleted() {
		if err := o.validateCanComplete(); err != nil {
			return err
		}
	}
	o.status = status
	return nil
}

// RaiseFulfillmentChanged records a change event carrying the current snapshot.
func (o *Order) RaiseFulfillmentChanged(
	kind ChangeKind,
	itemID *kernel.UUID,
	categories []kernel.Category,
	changes []AssignmentChange,
) {
	o.events = append(o.events, FulfillmentChanged{
		Kind:        kind,
		OrderNumber: o.number,
		ItemID:      itemID,
		Categories:  categories,
		Assignments: changes,
		OrderStatus: o.status,
		QCStatus:    o.qcStatus,
		Order:       o,
		OccurredAt:  time.Now().UTC(),
	})
}

// DomainEvents returns the events raised since the last ClearDomainEvents.
func (o *Order) DomainEvents() []FulfillmentChanged {
	out := make([]FulfillmentChanged, len(o.events))
	copy(out, o.events)
	return out
}

// ClearDomainEvents drops the raised events once they have been handed off.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) validateCanComplete() error {
	if !o.qcStatus.IsCompleted() {
		return errs.NewValueIsInvalidErrorWithCause(
			"order status",
			fmt.Errorf("order %s cannot complete before QC is completed", o.number),
		)
	}
	for _, it := range o.items {
		for c, s := range it.TeamStatus() {
			if !s.IsCompleted() {
				return errs.NewValueIsInvalidErrorWithCause(
					"order status",
					fmt.Errorf("order %s cannot complete while item %s %s is %s", o.number, it.ID(), c, s),
				)
			}
		}
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number kernel.OrderNumber) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setDispatcher(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("dispatcherName")
	}
	o.dispatcher = name
	return nil
}

func (o *Order) setCustomer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customer = name
	return nil
}
