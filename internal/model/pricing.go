package model

import "github.com/shopspring/decimal"

// Setting keys read by checkout.
const (
	SettingTaxRate               = "tax_rate"
	SettingShippingFlatRate      = "shipping_flat_rate"
	SettingFreeShippingThreshold = "free_shipping_threshold"
	SettingCurrency              = "currency"
)

// PricingRules are the store-wide knobs applied at checkout.
type PricingRules struct {
	// TaxRate is a fraction, e.g. 0.08 for 8%.
	TaxRate          decimal.Decimal
	ShippingFlatRate decimal.Decimal
	// FreeShippingThreshold waives shipping for subtotals at or above it.
	// Zero disables free shipping.
	FreeShippingThreshold decimal.Decimal
	Currency              string
}

// DefaultPricingRules are used when settings are missing or unparsable.
func DefaultPricingRules() PricingRules {
	return PricingRules{
		TaxRate:               decimal.Zero,
		ShippingFlatRate:      decimal.Zero,
		FreeShippingThreshold: decimal.Zero,
		Currency:              DefaultCurrency,
	}
}

// Totals is the monetary breakdown of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals prices a subtotal. discountPercent is 0-100; tax applies to the
// discounted subtotal. Every amount is rounded to cents.
func ComputeTotals(subtotal, discountPercent decimal.Decimal, rules PricingRules) Totals {
	subtotal = RoundMoney(subtotal)

	if discountPercent.GreaterThan(hundred) {
		discountPercent = hundred
	}
	discount := decimal.Zero
	if discountPercent.IsPositive() {
		discount = RoundMoney(subtotal.Mul(discountPercent).Div(hundred))
	}

	taxable := subtotal.Sub(discount)
	tax := RoundMoney(taxable.Mul(rules.TaxRate))

	shipping := RoundMoney(rules.ShippingFlatRate)
	if subtotal.IsZero() ||
		(rules.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(rules.FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	total := taxable.Add(tax).Add(shipping)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    RoundMoney(total),
	}
}
