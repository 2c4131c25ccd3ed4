package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricingConfig() PricingConfig {
	return PricingConfig{
		TaxRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFlatFee:       decimal.RequireFromString("5.99"),
	}
}

func TestCalculateTotalsAtFreeShippingThreshold(t *testing.T) {
	// 1 x $30 + 2 x $10 = $50, exactly at the threshold: shipping free,
	// tax $9.00, total $59.00.
	lines := []LineItem{
		{UnitPrice: decimal.NewFromInt(30), Quantity: 1},
		{UnitPrice: decimal.NewFromInt(10), Quantity: 2},
	}

	got := CalculateTotals(lines, testPricingConfig(), decimal.Zero)

	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(50)), "subtotal = %s", got.Subtotal)
	assert.True(t, got.ShippingCost.IsZero(), "shipping = %s", got.ShippingCost)
	assert.True(t, got.Tax.Equal(decimal.NewFromInt(9)), "tax = %s", got.Tax)
	assert.True(t, got.Discount.IsZero())
	assert.True(t, got.Total.Equal(decimal.NewFromInt(59)), "total = %s", got.Total)
}

func TestCalculateTotalsBelowThresholdChargesFlatFee(t *testing.T) {
	lines := []LineItem{
		{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
	}

	got := CalculateTotals(lines, testPricingConfig(), decimal.Zero)

	require.True(t, got.Subtotal.Equal(decimal.RequireFromString("39.98")))
	assert.True(t, got.ShippingCost.Equal(decimal.RequireFromString("5.99")))
	// 39.98 * 0.18 = 7.1964, rounded to currency precision.
	assert.True(t, got.Tax.Equal(decimal.RequireFromString("7.20")), "tax = %s", got.Tax)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("53.17")), "total = %s", got.Total)
}

func TestCalculateTotalsEmptyCart(t *testing.T) {
	got := CalculateTotals(nil, testPricingConfig(), decimal.Zero)

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	// Zero subtotal is below the threshold, so the flat fee applies.
	assert.True(t, got.ShippingCost.Equal(decimal.RequireFromString("5.99")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("5.99")))
}

func TestCalculateTotalsIsDeterministic(t *testing.T) {
	lines := []LineItem{
		{UnitPrice: decimal.RequireFromString("12.34"), Quantity: 3},
		{UnitPrice: decimal.RequireFromString("0.99"), Quantity: 7},
	}
	cfg := testPricingConfig()

	a := CalculateTotals(lines, cfg, decimal.Zero)
	b := CalculateTotals(lines, cfg, decimal.Zero)

	assert.True(t, a.Total.Equal(b.Total))
	assert.True(t, a.Tax.Equal(b.Tax))
	assert.True(t, a.Subtotal.Equal(a.Subtotal))
}

func TestCalculateTotalsAppliesDiscount(t *testing.T) {
	lines := []LineItem{{UnitPrice: decimal.NewFromInt(100), Quantity: 1}}

	got := CalculateTotals(lines, testPricingConfig(), decimal.NewFromInt(10))

	// 100 + 18 tax + 0 shipping - 10 discount.
	assert.True(t, got.Total.Equal(decimal.NewFromInt(108)), "total = %s", got.Total)
}
