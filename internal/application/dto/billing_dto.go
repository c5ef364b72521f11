package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

// ── requests ─────────────────────────────────────────────────────────────────

// GenerateInvoiceRequest triggers invoice generation for one client month.
type GenerateInvoiceRequest struct {
	ClientID     string `json:"client_id"`
	InvoiceMonth string `json:"invoice_month"` // YYYY-MM
	InvoiceDate  string `json:"invoice_date"`  // YYYY-MM-DD
	Regenerate   bool   `json:"regenerate"`
}

// CreateBillingEventRequest records one chargeable event in the ledger.
type CreateBillingEventRequest struct {
	ClientID      string           `json:"client_id"`
	WarehouseID   *string          `json:"warehouse_id,omitempty"`
	ServiceCode   string           `json:"service_code"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   *string          `json:"reference_id,omitempty"`
	EventDate     string           `json:"event_date"` // YYYY-MM-DD
	Qty           decimal.Decimal  `json:"qty"`
	PricingPolicy string           `json:"pricing_policy"`
	UnitPriceTHB  decimal.Decimal  `json:"unit_price_thb"`
	AmountTHB     *decimal.Decimal `json:"amount_thb,omitempty"`
	UnitPriceKRW  decimal.Decimal  `json:"unit_price_krw"`
	AmountKRW     *decimal.Decimal `json:"amount_krw,omitempty"`
}

// MarkEventsPendingRequest bulk-reverts invoiced events back to PENDING.
type MarkEventsPendingRequest struct {
	EventIDs []string `json:"event_ids"`
}

// CreateExchangeRateRequest is one manually entered THB→KRW daily rate.
type CreateExchangeRateRequest struct {
	RateDate string          `json:"rate_date"` // YYYY-MM-DD
	Rate     decimal.Decimal `json:"rate"`
	Status   string          `json:"status,omitempty"`
}

// UpdateExchangeRateRequest rewrites a still-mutable rate.
type UpdateExchangeRateRequest struct {
	RateDate string          `json:"rate_date"`
	Rate     decimal.Decimal `json:"rate"`
	Status   string          `json:"status,omitempty"`
}

// CreateClientRequest registers a billed customer.
type CreateClientRequest struct {
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	DefaultWarehouseID *string `json:"default_warehouse_id,omitempty"`
	ContactEmail       string  `json:"contact_email,omitempty"`
}

// ── responses ────────────────────────────────────────────────────────────────

// InvoiceResponse is the invoice header as exposed by the API.
type InvoiceResponse struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"client_id"`
	InvoiceMonth string          `json:"invoice_month"`
	InvoiceNo    string          `json:"invoice_no"`
	Status       string          `json:"status"`
	IssueDate    string          `json:"issue_date"`
	FxRateTHBKRW decimal.Decimal `json:"fx_rate_thb_krw"`
	SubtotalKRW  decimal.Decimal `json:"subtotal_krw"`
	VatKRW       decimal.Decimal `json:"vat_krw"`
	TotalKRW     decimal.Decimal `json:"total_krw"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// InvoiceItemResponse is one invoice line.
type InvoiceItemResponse struct {
	ID           string          `json:"id"`
	ServiceCode  string          `json:"service_code"`
	Description  string          `json:"description"`
	Qty          decimal.Decimal `json:"qty"`
	UnitPriceKRW decimal.Decimal `json:"unit_price_krw"`
	AmountKRW    decimal.Decimal `json:"amount_krw"`
}

// InvoiceDetailResponse is the invoice with its lines.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Items []InvoiceItemResponse `json:"items"`
}

// GenerateInvoiceResponse adds the generation metadata to the detail.
type GenerateInvoiceResponse struct {
	InvoiceDetailResponse
	Reused         bool `json:"reused"`
	EventsConsumed int  `json:"events_consumed"`
}

// BillingEventResponse is one ledger row.
type BillingEventResponse struct {
	ID            string           `json:"id"`
	ClientID      string           `json:"client_id"`
	WarehouseID   *string          `json:"warehouse_id,omitempty"`
	ServiceCode   string           `json:"service_code"`
	ReferenceType string           `json:"reference_type"`
	ReferenceID   *string          `json:"reference_id,omitempty"`
	EventDate     string           `json:"event_date"`
	Qty           decimal.Decimal  `json:"qty"`
	PricingPolicy string           `json:"pricing_policy"`
	UnitPriceTHB  decimal.Decimal  `json:"unit_price_thb"`
	AmountTHB     *decimal.Decimal `json:"amount_thb,omitempty"`
	UnitPriceKRW  decimal.Decimal  `json:"unit_price_krw"`
	AmountKRW     *decimal.Decimal `json:"amount_krw,omitempty"`
	FxRateTHBKRW  *decimal.Decimal `json:"fx_rate_thb_krw,omitempty"`
	Status        string           `json:"status"`
	InvoiceID     *string          `json:"invoice_id,omitempty"`
}

// ExchangeRateResponse is one rate row.
type ExchangeRateResponse struct {
	ID            string          `json:"id"`
	RateDate      string          `json:"rate_date"`
	BaseCurrency  string          `json:"base_currency"`
	QuoteCurrency string          `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	Status        string          `json:"status"`
	Locked        bool            `json:"locked"`
	EnteredBy     string          `json:"entered_by"`
}

// ── mappers ──────────────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// NewInvoiceResponse maps the entity.
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:           inv.ID,
		ClientID:     inv.ClientID,
		InvoiceMonth: inv.InvoiceMonth,
		InvoiceNo:    inv.InvoiceNo,
		Status:       inv.Status,
		IssueDate:    inv.IssueDate.Format(dateLayout),
		FxRateTHBKRW: inv.FxRateTHBKRW,
		SubtotalKRW:  inv.SubtotalKRW,
		VatKRW:       inv.VatKRW,
		TotalKRW:     inv.TotalKRW,
		CreatedBy:    inv.CreatedBy,
		CreatedAt:    inv.CreatedAt,
	}
}

// NewInvoiceDetailResponse maps the entity plus its items.
func NewInvoiceDetailResponse(inv *entity.Invoice, items []*entity.InvoiceItem) InvoiceDetailResponse {
	out := InvoiceDetailResponse{InvoiceResponse: NewInvoiceResponse(inv)}
	for _, item := range items {
		out.Items = append(out.Items, InvoiceItemResponse{
			ID:           item.ID,
			ServiceCode:  item.ServiceCode,
			Description:  item.Description,
			Qty:          item.Qty,
			UnitPriceKRW: item.UnitPriceKRW,
			AmountKRW:    item.AmountKRW,
		})
	}
	return out
}

// NewBillingEventResponse maps the entity.
func NewBillingEventResponse(ev *entity.BillingEvent) BillingEventResponse {
	return BillingEventResponse{
		ID:            ev.ID,
		ClientID:      ev.ClientID,
		WarehouseID:   ev.WarehouseID,
		ServiceCode:   ev.ServiceCode,
		ReferenceType: ev.ReferenceType,
		ReferenceID:   ev.ReferenceID,
		EventDate:     ev.EventDate.Format(dateLayout),
		Qty:           ev.Qty,
		PricingPolicy: ev.PricingPolicy,
		UnitPriceTHB:  ev.UnitPriceTHB,
		AmountTHB:     ev.AmountTHB,
		UnitPriceKRW:  ev.UnitPriceKRW,
		AmountKRW:     ev.AmountKRW,
		FxRateTHBKRW:  ev.FxRateTHBKRW,
		Status:        ev.Status,
		InvoiceID:     ev.InvoiceID,
	}
}

// NewExchangeRateResponse maps the entity.
func NewExchangeRateResponse(rate *entity.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ID:            rate.ID,
		RateDate:      rate.RateDate.Format(dateLayout),
		BaseCurrency:  rate.BaseCurrency,
		QuoteCurrency: rate.QuoteCurrency,
		Rate:          rate.Rate,
		Status:        rate.Status,
		Locked:        rate.Locked,
		EnteredBy:     rate.EnteredBy,
	}
}
