package domain

import "github.com/shopspring/decimal"

// PricingConfig holds the storefront pricing rules. Values come from
// configuration so the rates can change without a deploy of this file.
type PricingConfig struct {
	// TaxRate applied to the subtotal, e.g. 0.18 for 18% GST.
	TaxRate decimal.Decimal
	// FreeShippingThreshold: orders at or above this subtotal ship free.
	FreeShippingThreshold decimal.Decimal
	// ShippingFlatFee charged below the threshold.
	ShippingFlatFee decimal.Decimal
}

// LineItem is one priced cart line as read at checkout time.
type LineItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the financial snapshot persisted on the order. It is never
// recomputed after the order is created.
type Totals struct {
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
}

// CalculateTotals computes the order totals from the given lines. Pure:
// the result depends only on the inputs, which is what makes the stored
// snapshot trustworthy.
//
// Discount is accepted as a parameter but every caller passes zero
// today; coupon support will supply a real value.
func CalculateTotals(lines []LineItem, cfg PricingConfig, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	shipping := cfg.ShippingFlatFee
	if subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shipping,
		Discount:     discount,
		Total:        subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}
