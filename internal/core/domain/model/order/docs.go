// Package order provides the fulfillment aggregate: Order, its Items and their
// Assignments, each assignment carrying an append-only tracking ledger.
//
// The package includes:
//   - Order: aggregate root with order-level status and the QC verdict
//   - Item: an order line holding assignments per production category plus a
//     status per category
//   - Assignment: "produce N units of spec" for one team, with its ledger of Entries
//   - Status / QCStatus: the fulfillment and quality-control state values
//   - CostEstimate: optional itemized price estimate
//   - FulfillmentChanged: the event raised whenever fulfillment state is written
//
// Key business rules:
//   - a ledger entry never pushes an assignment past its quantity; such an entry is
//     rejected with errs.CapacityExceededError and nothing is recorded
//   - an assignment is Completed exactly when its ledger total reaches its quantity
//   - statuses move forward only, except through an administrative order edit
//   - an order cannot be Completed before its QC verdict is Completed
//
// Rollup from assignments to categories and orders is computed by the services
// package; this package only guards the transitions.
package order
