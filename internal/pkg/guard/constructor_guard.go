// Package guard provides ConstructorGuard, a marker embedded in commands, queries and
// value objects so that zero values built without their constructor fail validation.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the object was not constructed
// and the caller supplied no specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing object went through its constructor.
//
// Example:
//
//	type RecordProgressCommand struct {
//	    quantity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c RecordProgressCommand) Validate() error {
//	    return c.guard.Validate(ErrRecordProgressCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
