package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CostEstimate is the dispatcher's itemized price estimate of an order. The rollup
// never reads it. Amounts are rounded to two decimal places and Total is always
// derived from the parts, never stored independently.
type CostEstimate struct {
	itemsCost           decimal.Decimal
	shippingAndHandling decimal.Decimal
	taxes               decimal.Decimal
	additionalFees      decimal.Decimal
}

// NewCostEstimate validates that every amount is non-negative.
func NewCostEstimate(itemsCost, shippingAndHandling, taxes, additionalFees decimal.Decimal) (CostEstimate, error) {
	parts := map[string]decimal.Decimal{
		"itemsCost":           itemsCost,
		"shippingAndHandling": shippingAndHandling,
		"taxes":               taxes,
		"additionalFees":      additionalFees,
	}
	for name, amount := range parts {
		if amount.IsNegative() {
			return CostEstimate{}, errs.NewValueIsInvalidErrorWithCause(
				name, fmt.Errorf("%s is negative", amount.String()))
		}
	}

	return CostEstimate{
		itemsCost:           itemsCost.Round(2),
		shippingAndHandling: shippingAndHandling.Round(2),
		taxes:               taxes.Round(2),
		additionalFees:      additionalFees.Round(2),
	}, nil
}

// ItemsCost returns the cost of the goods.
func (c CostEstimate) ItemsCost() decimal.Decimal { return c.itemsCost }

// ShippingAndHandling returns the logistics part of the estimate.
func (c CostEstimate) ShippingAndHandling() decimal.Decimal { return c.shippingAndHandling }

// Taxes returns the tax part of the estimate.
func (c CostEstimate) Taxes() decimal.Decimal { return c.taxes }

// AdditionalFees returns insurance and other fees.
func (c CostEstimate) AdditionalFees() decimal.Decimal { return c.additionalFees }

// Total returns the sum of all parts.
func (c CostEstimate) Total() decimal.Decimal {
	return c.itemsCost.Add(c.shippingAndHandling).Add(c.taxes).Add(c.additionalFees)
}
