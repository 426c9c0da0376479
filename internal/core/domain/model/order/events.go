package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ChangeKind tells subscribers what caused a FulfillmentChanged event.
type ChangeKind string

const (
	OrderCreated     ChangeKind = "created"
	ProgressRecorded ChangeKind = "progress"
	QCUpdated        ChangeKind = "qc"
	OrderEdited      ChangeKind = "edited"
	RollupReconciled ChangeKind = "reconciled"
)

// AssignmentChange is the post-update state of one assignment touched by an update.
type AssignmentChange struct {
	AssignmentID   kernel.UUID
	Category       kernel.Category
	Status         Status
	TotalCompleted int
	Quantity       int
}

// FulfillmentChanged is raised by an Order whenever its fulfillment state was
// written. It is delivered to subscribers only after the transaction that raised
// it has committed.
type FulfillmentChanged struct {
	Kind        ChangeKind
	OrderNumber kernel.OrderNumber
	// ItemID is nil for order-wide changes such as QC-only updates or edits.
	ItemID      *kernel.UUID
	Categories  []kernel.Category
	Assignments []AssignmentChange
	OrderStatus Status
	QCStatus    QCStatus
	// Order is the full snapshot as of the end of the transaction.
	Order      *Order
	OccurredAt time.Time
}
