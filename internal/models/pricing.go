package models

import "github.com/shopspring/decimal"

// Pricing policy. Delivery is free only when the subtotal strictly exceeds
// the threshold: a subtotal of exactly 500 still pays the flat fee.
var (
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	FlatDeliveryFee       = decimal.NewFromInt(50)
	TaxRate               = decimal.NewFromFloat(0.05)
)

// PricingBreakdown is the derived subtotal/fee/tax/total for a cart. It is
// recomputed from the cart on every read and never persisted. Amounts carry
// full precision; rounding to two places happens only at display or
// submission time via Rounded.
type PricingBreakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// PriceCart computes the breakdown for a set of cart lines. The sum is
// order-independent. An empty set yields a zero subtotal, which still falls
// under the flat-fee policy; callers block checkout on an empty cart before
// a breakdown is ever submitted.
func PriceCart(lines []CartLine) PricingBreakdown {
	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}

	fee := FlatDeliveryFee
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)

	return PricingBreakdown{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}

// Rounded returns the breakdown with every amount rounded to two decimal
// places, for display or order submission.
func (b PricingBreakdown) Rounded() PricingBreakdown {
	return PricingBreakdown{
		Subtotal:    b.Subtotal.Round(2),
		DeliveryFee: b.DeliveryFee.Round(2),
		Tax:         b.Tax.Round(2),
		Total:       b.Total.Round(2),
	}
}
