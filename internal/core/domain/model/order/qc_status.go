package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// QCStatus is the order-level quality-control verdict. It is a human sign-off
// gate with no sub-structure: an order cannot be Completed until QC is Completed,
// however far production has progressed.
type QCStatus int

const (
	// QCUnset means no inspector has looked at the order yet.
	QCUnset QCStatus = iota

	// QCInProgress means inspection has started.
	QCInProgress

	// QCCompleted means the order passed quality control.
	QCCompleted
)

// ParseQCStatus converts the wire name of a verdict. An empty string means QCUnset.
func ParseQCStatus(s string) (QCStatus, error) {
	switch strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)) {
	case "", "unset":
		return QCUnset, nil
	case "inprogress":
		return QCInProgress, nil
	case "completed":
		return QCCompleted, nil
	default:
		return QCUnset, errs.NewValueIsInvalidErrorWithCause("qcStatus", fmt.Errorf("%q is not a valid QC status", s))
	}
}

// Validate checks that q is a known verdict.
func (q QCStatus) Validate() error {
	if q < QCUnset || q > QCCompleted {
		return errs.NewValueIsInvalidErrorWithCause("qcStatus", fmt.Errorf("%d is not a valid QC status", q))
	}
	return nil
}

func (q QCStatus) String() string {
	switch q {
	case QCUnset:
		return "Unset"
	case QCInProgress:
		return "InProgress"
	case QCCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// IsCompleted reports whether the order passed quality control.
func (q QCStatus) IsCompleted() bool {
	return q == QCCompleted
}
