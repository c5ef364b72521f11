package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Transitions are monotonic forward: draft → issued → paid.
const (
	InvoiceStatusDraft  = "draft"
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
)

// ServiceCodeVAT is the synthetic line item appended for the 7% VAT row.
const ServiceCodeVAT = "VAT_7"

// Invoice is the monthly KRW invoice for one client. At most one non-deleted
// invoice per (client, invoice month) exists through the generation path;
// admin duplication deliberately creates a second draft for corrections.
type Invoice struct {
	ID           string
	ClientID     string
	InvoiceMonth string // YYYY-MM
	InvoiceNo    string
	Status       string
	IssueDate    time.Time
	FxRateTHBKRW decimal.Decimal
	SubtotalKRW  decimal.Decimal
	VatKRW       decimal.Decimal
	TotalKRW     decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// InvoiceItem is one aggregated service line (or the synthetic VAT row).
// Items are owned by their invoice and soft-deleted with it on regeneration.
type InvoiceItem struct {
	ID           string
	Seq          int64 // insertion counter, assigned by the store; orders line display
	InvoiceID    string
	ServiceCode  string
	Description  string
	Qty          decimal.Decimal
	UnitPriceKRW decimal.Decimal
	AmountKRW    decimal.Decimal
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// InvoiceStatusRank orders statuses for the forward-only state machine
// (draft=0 < issued=1 < paid=2). Unknown statuses rank lowest.
func InvoiceStatusRank(status string) int {
	switch status {
	case InvoiceStatusDraft:
		return 0
	case InvoiceStatusIssued:
		return 1
	case InvoiceStatusPaid:
		return 2
	}
	return -1
}

// InvoiceNumber builds the invoice number KRW-{client}-{yyyymm}-{seq:04d}.
func InvoiceNumber(clientCode, yyyymm string, seq int) string {
	return fmt.Sprintf("KRW-%s-%s-%04d", clientCode, yyyymm, seq)
}
