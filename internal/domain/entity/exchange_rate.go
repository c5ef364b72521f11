package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency pair handled by the back office. Rates are entered as THB→KRW.
const (
	CurrencyTHB = "THB"
	CurrencyKRW = "KRW"
)

// Exchange rate statuses. Only ACTIVE rates are eligible for invoicing.
const (
	RateStatusDraft      = "draft"
	RateStatusActive     = "active"
	RateStatusSuperseded = "superseded"
)

// ExchangeRate is a manually entered THB→KRW rate anchored to a date.
// Once Locked (consumed by invoice generation) or referenced by an invoice
// it is immutable: no update, no delete. Locking is forward-only.
type ExchangeRate struct {
	ID            string
	RateDate      time.Time
	BaseCurrency  string // THB
	QuoteCurrency string // KRW
	Rate          decimal.Decimal
	Status        string
	Locked        bool
	EnteredBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}
