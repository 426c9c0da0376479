// Package pgerr classifies PostgreSQL failures into the fulfillment error taxonomy.
//
// Serialization failures and deadlocks become retryable conflicts. Unique
// violations become already-exists errors, check and foreign key violations
// become plain conflicts, and anything else the store reports becomes a store
// fault. Domain errors and gorm.ErrRecordNotFound pass through untouched
// so repositories can still map them themselves.
package pgerr

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes that are handled explicitly.
const (
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
	LockNotAvailable     = "55P03"
	UniqueViolation      = "23505"
	CheckViolation       = "23514"
	ForeignKeyViolation  = "23503"
)

// Translate maps err to the error taxonomy. operation names what was attempted and
// ends up in the message of conflicts and faults; param names the object for
// already-exists errors.
func Translate(operation string, param string, id any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || isDomainError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case SerializationFailure, DeadlockDetected, LockNotAvailable:
			return errs.NewRetryableConflictError(operation, err)
		case UniqueViolation:
			return errs.NewObjectAlreadyExistsErrorWithCause(param, id, err)
		case CheckViolation, ForeignKeyViolation:
			return errs.NewConflictError(operation, pgErr.Message)
		}
	}

	return errs.NewStoreFaultError(operation, err)
}

func isDomainError(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, errs.ErrCapacityExceeded) ||
		errors.Is(err, errs.ErrConflict) ||
		errors.Is(err, errs.ErrObjectAlreadyExists) ||
		errors.Is(err, errs.ErrStoreFault)
}
