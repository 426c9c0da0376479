package order

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Spec is the category-specific payload of an assignment: what exactly the team
// has to produce. Name is the product name (glass name, cap name, ...) and
// Attributes holds the category's vocabulary, for example neck_size for glass
// and caps or approval_code for boxes.
type Spec struct {
	name       string
	attributes map[string]string
}

// NewSpec validates the payload against the category vocabulary. Empty attribute
// values are dropped; unknown attribute keys are rejected.
func NewSpec(category kernel.Category, name string, attributes map[string]string) (Spec, error) {
	if err := category.Validate(); err != nil {
		return Spec{}, err
	}

	s := Spec{
		name:       strings.TrimSpace(name),
		attributes: make(map[string]string, len(attributes)),
	}
	if s.name == "" {
		return Spec{}, errs.NewValueIsRequiredError(category.String() + " name")
	}

	for key, value := range attributes {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if !category.AllowsAttribute(key) {
			return Spec{}, errs.NewValueIsInvalidErrorWithCause(
				"spec attribute",
				fmt.Errorf("%q is not an attribute of %s", key, category),
			)
		}
		s.attributes[key] = value
	}

	return s, nil
}

// Name returns the product name.
func (s Spec) Name() string {
	return s.name
}

// Attributes returns a copy of the attribute map.
func (s Spec) Attributes() map[string]string {
	return maps.Clone(s.attributes)
}

// Attribute returns a single attribute value or "".
func (s Spec) Attribute(key string) string {
	return s.attributes[key]
}

// canonical renders the spec deterministically: name followed by the attributes
// sorted by key. Names are compared case-insensitively.
func (s Spec) canonical() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(s.name))
	for _, key := range slices.Sorted(maps.Keys(s.attributes)) {
		b.WriteString(";")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(s.attributes[key])
	}
	return b.String()
}
