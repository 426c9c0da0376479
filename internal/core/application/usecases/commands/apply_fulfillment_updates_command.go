package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrApplyFulfillmentUpdatesCommandIsNotConstructed = errors.New(
		"ApplyFulfillmentUpdatesCommand must be created via NewApplyFulfillmentUpdatesCommand constructor",
	)
)

// ProgressUpdate reports completed units for one assignment.
//
// ExpectedTotal and ExpectedStatus are the client's view of the assignment after
// the entry is applied. When set they must match the server result, otherwise the
// update is rejected with a non-retryable errs.ConflictError.
type ProgressUpdate struct {
	AssignmentID   kernel.UUID
	Entry          order.Entry
	ExpectedTotal  *int
	ExpectedStatus *order.Status
}

// ApplyFulfillmentUpdatesCommand is one logical fulfillment update: production
// progress for one or more assignments of a single item, a QC verdict, or both.
//
// Example:
//
//	entry, _ := order.NewEntry(kernel.NewUUID(), 40, time.Now(), "line-3")
//	cmd, err := NewApplyFulfillmentUpdatesCommand("PO-1001", &itemID, []ProgressUpdate{
//	    {AssignmentID: glassID, Entry: entry},
//	}, nil)
//	if err != nil {
//	    return err // invalid request, nothing was written
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyFulfillmentUpdatesCommand struct { //nolint:recvcheck //using for validation
	orderNumber kernel.OrderNumber
	itemID      *kernel.UUID
	updates     []ProgressUpdate
	qcVerdict   *order.QCStatus

	guard guard.ConstructorGuard
}

// NewApplyFulfillmentUpdatesCommand validates a fulfillment update before any
// transaction is opened.
//
// Business rules:
//   - at least one of updates or qcVerdict must be present
//   - updates require itemID; every update must carry a valid assignment ID and entry
//   - an entry ID may appear only once per command
//   - expected statuses are Pending or Completed, expected totals are not negative
func NewApplyFulfillmentUpdatesCommand(
	orderNumber string,
	itemID *kernel.UUID,
	updates []ProgressUpdate,
	qcVerdict *order.QCStatus,
) (ApplyFulfillmentUpdatesCommand, error) {
	cmd := ApplyFulfillmentUpdatesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderNumber(orderNumber),
		cmd.setUpdates(itemID, updates),
		cmd.setQCVerdict(qcVerdict),
	); err != nil {
		return ApplyFulfillmentUpdatesCommand{}, err
	}

	if len(cmd.updates) == 0 && cmd.qcVerdict == nil {
		return ApplyFulfillmentUpdatesCommand{}, errs.NewValueIsRequiredError("updates or qcStatus")
	}

	return cmd, nil
}

// NewSetQCVerdictCommand creates a QC-only update. The order rollup still runs,
// so a verdict of Completed on a finished order completes it.
func NewSetQCVerdictCommand(orderNumber string, verdict order.QCStatus) (ApplyFulfillmentUpdatesCommand, error) {
	return NewApplyFulfillmentUpdatesCommand(orderNumber, nil, nil, &verdict)
}

// Validate ensures the command was created through the constructor.
func (c ApplyFulfillmentUpdatesCommand) Validate() error {
	return c.guard.Validate(ErrApplyFulfillmentUpdatesCommandIsNotConstructed)
}

// OrderNumber returns the order being updated.
func (c ApplyFulfillmentUpdatesCommand) OrderNumber() kernel.OrderNumber {
	return c.orderNumber
}

// ItemID returns the item owning every updated assignment, or nil for QC-only updates.
func (c ApplyFulfillmentUpdatesCommand) ItemID() *kernel.UUID {
	if c.itemID == nil {
		return nil
	}
	id := *c.itemID
	return &id
}

// Updates returns the production updates in request order.
func (c ApplyFulfillmentUpdatesCommand) Updates() []ProgressUpdate {
	out := make([]ProgressUpdate, len(c.updates))
	copy(out, c.updates)
	return out
}

// QCVerdict returns the verdict to apply, or nil.
func (c ApplyFulfillmentUpdatesCommand) QCVerdict() *order.QCStatus {
	if c.qcVerdict == nil {
		return nil
	}
	v := *c.qcVerdict
	return &v
}

func (c *ApplyFulfillmentUpdatesCommand) setOrderNumber(orderNumber string) error {
	n, err := kernel.NewOrderNumber(orderNumber)
	if err != nil {
		return err
	}
	c.orderNumber = n
	return nil
}

func (c *ApplyFulfillmentUpdatesCommand) setUpdates(itemID *kernel.UUID, updates []ProgressUpdate) error {
	if len(updates) == 0 {
		if itemID != nil {
			if err := itemID.Validate(); err != nil {
				return err
			}
			id := *itemID
			c.itemID = &id
		}
		return nil
	}

	if itemID == nil {
		return errs.NewValueIsRequiredError("itemId")
	}
	if err := itemID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("itemId", err)
	}

	seen := make(map[string]bool, len(updates))
	var all []error
	for i, u := range updates {
		param := fmt.Sprintf("updates[%d]", i)
		if err := u.AssignmentID.Validate(); err != nil {
			all = append(all, errs.NewValueIsInvalidErrorWithCause(param+".assignmentId", err))
		}
		if err := u.Entry.Validate(); err != nil {
			all = append(all, errs.NewValueIsInvalidErrorWithCause(param+".entry", err))
			continue
		}
		if seen[u.Entry.ID().String()] {
			all = append(all, errs.NewValueIsInvalidErrorWithCause(
				param+".entry.id", fmt.Errorf("entry %s is repeated", u.Entry.ID())))
		}
		seen[u.Entry.ID().String()] = true
		if u.ExpectedTotal != nil && *u.ExpectedTotal < 0 {
			all = append(all, errs.NewValueIsOutOfRangeError(param+".newTotalCompleted", *u.ExpectedTotal, 0, "quantity"))
		}
		if u.ExpectedStatus != nil {
			if err := u.ExpectedStatus.ValidateForAssignment(); err != nil {
				all = append(all, errs.NewValueIsInvalidErrorWithCause(param+".newStatus", err))
			}
		}
	}
	if err := errors.Join(all...); err != nil {
		return err
	}

	id := *itemID
	c.itemID = &id
	c.updates = make([]ProgressUpdate, len(updates))
	copy(c.updates, updates)
	return nil
}

func (c *ApplyFulfillmentUpdatesCommand) setQCVerdict(verdict *order.QCStatus) error {
	if verdict == nil {
		return nil
	}
	if err := verdict.Validate(); err != nil {
		return err
	}
	v := *verdict
	c.qcVerdict = &v
	return nil
}
