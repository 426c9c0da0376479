package kernel

import (
	"fmt"
	"strings"
	"unicode"

	"fulfillment/internal/pkg/errs"
)

// MaxOrderNumberLength bounds the natural key so it fits the indexed column.
const MaxOrderNumberLength = 64

// OrderNumber is the human-assigned unique reference of an order. It is distinct
// from the internal UUID and is what dispatchers, teams and customers use.
type OrderNumber struct {
	value string
}

// NewOrderNumber trims surrounding blanks and rejects empty values, values longer than
// MaxOrderNumberLength and values containing whitespace or control characters.
func NewOrderNumber(value string) (OrderNumber, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return OrderNumber{}, errs.NewValueIsRequiredError("orderNumber")
	}
	if len(v) > MaxOrderNumberLength {
		return OrderNumber{}, errs.NewValueIsOutOfRangeError("orderNumber length", len(v), 1, MaxOrderNumberLength)
	}
	for _, r := range v {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return OrderNumber{}, errs.NewValueIsInvalidErrorWithCause(
				"orderNumber", fmt.Errorf("%q contains whitespace or control characters", v))
		}
	}
	return OrderNumber{value: v}, nil
}

func (n OrderNumber) String() string {
	return n.value
}

// IsEqual compares order numbers exactly; they are case-sensitive.
func (n OrderNumber) IsEqual(other OrderNumber) bool {
	return n.value == other.value
}

// Validate rejects the zero value.
func (n OrderNumber) Validate() error {
	if n.value == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	return nil
}
