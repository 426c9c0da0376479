// Package errs provides the error types shared by the fulfillment core and its
// adapters. Every type unwraps to exactly one sentinel, so callers classify with
// errors.Is and read details with errors.As.
//
// Classification used by the adapters:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: invalid request
//   - ObjectNotFoundError: an order, item or assignment does not exist
//   - ObjectAlreadyExistsError: a duplicate order number or entry ID
//   - CapacityExceededError: an entry larger than the remaining quantity
//   - ConflictError: a lost race (Retryable) or a stale client view
//   - StoreFaultError: the entity store failed or timed out
//
// A Cause, when present, is part of the message only; Unwrap always returns the
// sentinel.
//
// Example:
//
//	if errors.Is(err, errs.ErrCapacityExceeded) {
//	    var ce *errs.CapacityExceededError
//	    errors.As(err, &ce)
//	    log.Printf("assignment %s has %d units left", ce.AssignmentID, ce.Remaining)
//	}
package errs
