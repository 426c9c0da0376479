// Package services provides the stateless domain services of the fulfillment domain.
// They compute values that span several entities of the order aggregate and hold
// no state of their own, so they are safe to share and trivially testable.
//
// The package includes:
//   - RollupCalculator: derives category and order statuses from assignment snapshots
//   - ProgressCalculator: derives the customer-facing percentage and step
//   - LedgerCarrier: moves ledger state from replaced assignments onto their
//     successors during an order edit
package services
