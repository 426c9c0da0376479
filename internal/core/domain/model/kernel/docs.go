// Package kernel provides the shared primitives of the fulfillment domain.
//
// The package includes:
//   - UUID: identifier value object used by orders, items, assignments and ledger entries
//   - OrderNumber: the human-assigned, unique order reference used by dispatchers and customers
//   - Category: the closed set of production teams (glass, caps, boxes, pumps)
//
// All primitives are immutable values. Their zero values are invalid and are rejected
// by Validate, so a value that reached the domain through a constructor can be trusted.
package kernel
