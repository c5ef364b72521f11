package billing

import (
	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

// NormalizedAmountKRW resolves a billing event to its invoiced KRW amount.
//
// Amount resolution: an explicit amount field wins; otherwise the amount is
// derived as unit_price * qty. The pricing policy selects the currency
// branch: THB_BASED converts at the frozen rate, KRW_FIXED passes through.
// Either way the result is truncated down to the nearest 100 KRW.
func NormalizedAmountKRW(ev *entity.BillingEvent, fxRate decimal.Decimal) (decimal.Decimal, error) {
	switch ev.PricingPolicy {
	case entity.PricingTHBBased:
		amountTHB := ev.UnitPriceTHB.Mul(ev.Qty)
		if ev.AmountTHB != nil {
			amountTHB = *ev.AmountTHB
		}
		return TruncateToHundred(amountTHB.Mul(fxRate)), nil
	case entity.PricingKRWFixed:
		amountKRW := ev.UnitPriceKRW.Mul(ev.Qty)
		if ev.AmountKRW != nil {
			amountKRW = *ev.AmountKRW
		}
		return TruncateToHundred(amountKRW), nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// UnitPriceKRW derives the per-unit price for an aggregated invoice item:
// truncateToHundred(amount/qty) when qty > 0, else the amount itself.
func UnitPriceKRW(amountKRW, qty decimal.Decimal) decimal.Decimal {
	if qty.GreaterThan(decimal.Zero) {
		return TruncateToHundred(amountKRW.Div(qty))
	}
	return amountKRW
}
