package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrObjectAlreadyExists is the sentinel for creates that collide with an existing object.
	ErrObjectAlreadyExists = errors.New("object already exists")

	// ErrCapacityExceeded is the sentinel for ledger entries that would overshoot the ordered quantity.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrConflict is the sentinel for updates that lost a race or were built on stale state.
	ErrConflict = errors.New("conflict")

	// ErrStoreFault is the sentinel for infrastructure failures of the entity store.
	ErrStoreFault = errors.New("store fault")
)

// ObjectAlreadyExistsError reports a duplicate natural key, such as an order number.
type ObjectAlreadyExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectAlreadyExistsError creates an ObjectAlreadyExistsError.
func NewObjectAlreadyExistsError(paramName string, id any) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id}
}

// NewObjectAlreadyExistsErrorWithCause creates an ObjectAlreadyExistsError wrapping the store error.
func NewObjectAlreadyExistsErrorWithCause(paramName string, id any, cause error) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectAlreadyExistsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %v)", ErrObjectAlreadyExists, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrObjectAlreadyExists, e.ParamName, e.ID)
}

func (e *ObjectAlreadyExistsError) Unwrap() error {
	return ErrObjectAlreadyExists
}

// CapacityExceededError reports a completion entry larger than the remaining quantity
// of an assignment. Requested and Remaining are in units of the assignment.
type CapacityExceededError struct {
	AssignmentID string
	Requested    int
	Remaining    int
}

// NewCapacityExceededError creates a CapacityExceededError for the given assignment.
func NewCapacityExceededError(assignmentID string, requested, remaining int) *CapacityExceededError {
	return &CapacityExceededError{
		AssignmentID: assignmentID,
		Requested:    requested,
		Remaining:    remaining,
	}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: assignment %s requested %d, remaining %d",
		ErrCapacityExceeded, e.AssignmentID, e.Requested, e.Remaining)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// ConflictError reports a concurrent modification. Retryable conflicts come from the
// store (serialization failures, deadlocks) and may succeed when the whole operation
// is re-run; non-retryable ones mean the caller's view is stale.
type ConflictError struct {
	ParamName string
	Reason    string
	Retryable bool
	Cause     error
}

// NewConflictError creates a non-retryable ConflictError.
func NewConflictError(paramName, reason string) *ConflictError {
	return &ConflictError{ParamName: paramName, Reason: reason}
}

// NewRetryableConflictError creates a ConflictError the caller may resolve by retrying.
func NewRetryableConflictError(paramName string, cause error) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		Reason:    "concurrent modification",
		Retryable: true,
		Cause:     cause,
	}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrConflict, e.ParamName, e.Reason)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// StoreFaultError reports an infrastructure failure during Operation.
type StoreFaultError struct {
	Operation string
	Cause     error
}

// NewStoreFaultError creates a StoreFaultError.
func NewStoreFaultError(operation string, cause error) *StoreFaultError {
	return &StoreFaultError{Operation: operation, Cause: cause}
}

func (e *StoreFaultError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrStoreFault, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrStoreFault, e.Operation)
}

func (e *StoreFaultError) Unwrap() error {
	return ErrStoreFault
}

// IsInvalidRequest reports whether err is a validation failure of caller input.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange) ||
		errors.Is(err, ErrVersionIsInvalid)
}

// IsRetryable reports whether the whole operation that produced err may be re-run.
func IsRetryable(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Retryable
}
