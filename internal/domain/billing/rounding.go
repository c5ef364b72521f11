package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TruncateToHundred applies the business rounding rule for KRW amounts:
// floor(x / 100) * 100. Every line amount, unit price, subtotal, VAT and
// total passes through this. It is a billing rule, not float cleanup, and
// must be bit-exact.
func TruncateToHundred(x decimal.Decimal) decimal.Decimal {
	return x.Div(hundred).Floor().Mul(hundred)
}

// VATRate is the Thai VAT applied to the KRW subtotal (7%).
var VATRate = decimal.NewFromFloat(0.07)

// ComputeVAT returns truncateToHundred(subtotal * 0.07).
func ComputeVAT(subtotalKRW decimal.Decimal) decimal.Decimal {
	return TruncateToHundred(subtotalKRW.Mul(VATRate))
}
