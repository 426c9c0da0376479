package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the fulfillment state shared by orders, item categories and assignments.
//
// Progression is monotonic during normal operation:
//
//	Pending ──> InProgress ──> Completed
//	   └──────────────────────────^
//
// Assignments only ever use Pending and Completed. Item categories and orders
// additionally pass through InProgress once any unit has been reported. The only
// path back from Completed is an administrative order edit.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending means no unit has been reported yet.
	Pending

	// InProgress means some, but not all, required units have been reported.
	InProgress

	// Completed means every required unit has been reported (and, for orders,
	// quality control has signed off).
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		InProgress: "InProgress",
		Completed:  "Completed",
	}
}

// ParseStatus converts the wire name of a status. It accepts "In Progress" and
// "in_progress" as spellings of InProgress.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	switch normalized {
	case "pending":
		return Pending, nil
	case "inprogress":
		return InProgress, nil
	case "completed":
		return Completed, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
	}
}

// Validate checks that s is Pending, InProgress or Completed.
func (s Status) Validate() error {
	if s < Pending || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// ValidateForAssignment checks that s is one of the two assignment states.
func (s Status) ValidateForAssignment() error {
	if s != Pending && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment status",
			fmt.Errorf("%s is not a valid assignment status", s),
		)
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsCompleted reports whether s is Completed.
func (s Status) IsCompleted() bool {
	return s == Completed
}

// IsAhead reports whether s is strictly further along the progression than other.
func (s Status) IsAhead(other Status) bool {
	return s > other
}
