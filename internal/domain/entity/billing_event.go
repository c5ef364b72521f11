package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pricing policies. The policy selects which currency fields on the event
// are authoritative.
const (
	PricingTHBBased = "THB_BASED" // THB fields authoritative, converted at invoicing
	PricingKRWFixed = "KRW_FIXED" // KRW fields authoritative, passed through unconverted
)

// Billing event lifecycle statuses.
const (
	EventStatusPending  = "PENDING"
	EventStatusInvoiced = "INVOICED"
)

// Reference types linking an event back to the operation that produced it.
const (
	RefTypeInboundOrder  = "INBOUND_ORDER"
	RefTypeOutboundOrder = "OUTBOUND_ORDER"
	RefTypeManual        = "MANUAL"
)

// BillingEvent is one chargeable unit of service usage awaiting invoicing.
// Created PENDING with a nil invoice link; transitions to INVOICED exactly
// once by the generation engine, which freezes FxRateTHBKRW and the
// normalized KRW amount. Reverting to PENDING is only allowed while the
// owning invoice is still a draft.
type BillingEvent struct {
	ID            string
	Seq           int64 // insertion counter, assigned by the store; orders aggregation
	ClientID      string
	WarehouseID   *string
	ServiceCode   string
	ReferenceType string
	ReferenceID   *string
	EventDate     time.Time
	Qty           decimal.Decimal
	PricingPolicy string
	UnitPriceTHB  decimal.Decimal
	AmountTHB     *decimal.Decimal // explicit THB amount; nil = derive unit*qty
	UnitPriceKRW  decimal.Decimal
	AmountKRW     *decimal.Decimal // explicit KRW amount; nil = derive unit*qty
	FxRateTHBKRW  *decimal.Decimal // frozen at invoicing, nil while PENDING
	Status        string
	InvoiceID     *string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
