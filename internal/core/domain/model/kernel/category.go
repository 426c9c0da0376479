package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Category tags an assignment with the production team responsible for it.
// The set is closed: every assignment belongs to exactly one of the four
// categories below, and each category has its own spec attribute vocabulary.
type Category string

const (
	Glass Category = "glass"
	Caps  Category = "caps"
	Boxes Category = "boxes"
	Pumps Category = "pumps"
)

// AllCategories returns the categories in their canonical display order.
func AllCategories() []Category {
	return []Category{Glass, Caps, Boxes, Pumps}
}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate rejects anything outside the closed set.
func (c Category) Validate() error {
	switch c {
	case Glass, Caps, Boxes, Pumps:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%q is not a known category", string(c)))
	}
}

func (c Category) String() string {
	return string(c)
}

// TeamName is the default production team for the category.
func (c Category) TeamName() string {
	switch c {
	case Glass:
		return "Glass"
	case Caps:
		return "Caps"
	case Boxes:
		return "Boxes"
	case Pumps:
		return "Pumps"
	default:
		return ""
	}
}

// SpecAttributes lists the spec attribute keys an assignment of this category may carry.
func (c Category) SpecAttributes() []string {
	switch c {
	case Glass:
		return []string{"weight", "neck_size", "decoration", "decoration_no", "decoration_details", "rate_per_1000"}
	case Caps:
		return []string{"neck_size", "process", "material"}
	case Boxes:
		return []string{"approval_code"}
	case Pumps:
		return []string{"neck_type"}
	default:
		return nil
	}
}

// AllowsAttribute reports whether key belongs to the category's spec vocabulary.
func (c Category) AllowsAttribute(key string) bool {
	for _, k := range c.SpecAttributes() {
		if k == key {
			return true
		}
	}
	return false
}
