package billing

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// InvoicePDFGenerator renders an invoice detail as a PDF document.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, detail *InvoiceDetail) ([]byte, error)
}

// InvoiceExcelExporter renders an invoice detail as an xlsx workbook.
type InvoiceExcelExporter interface {
	ExportInvoice(detail *InvoiceDetail) ([]byte, error)
}

// ExportUseCase produces the downloadable artifacts: invoice PDF, invoice
// Excel workbook and the billing event ledger as CSV.
type ExportUseCase struct {
	queryUC   *InvoiceQueryUseCase
	eventRepo repository.BillingEventRepository
	pdf       InvoicePDFGenerator
	excel     InvoiceExcelExporter
}

// NewExportUseCase builds the use case.
func NewExportUseCase(queryUC *InvoiceQueryUseCase, eventRepo repository.BillingEventRepository, pdf InvoicePDFGenerator, excel InvoiceExcelExporter) *ExportUseCase {
	return &ExportUseCase{queryUC: queryUC, eventRepo: eventRepo, pdf: pdf, excel: excel}
}

// InvoicePDF renders the invoice as PDF. Returns the bytes and a suggested
// file name derived from the invoice number.
func (uc *ExportUseCase) InvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	detail, err := uc.queryUC.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateInvoicePDF(ctx, detail)
	if err != nil {
		return nil, "", err
	}
	return data, detail.Invoice.InvoiceNo + ".pdf", nil
}

// InvoiceExcel renders the invoice as an xlsx workbook.
func (uc *ExportUseCase) InvoiceExcel(ctx context.Context, invoiceID string) ([]byte, string, error) {
	detail, err := uc.queryUC.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.excel.ExportInvoice(detail)
	if err != nil {
		return nil, "", err
	}
	return data, detail.Invoice.InvoiceNo + ".xlsx", nil
}

// EventsCSV exports a client's ledger slice as CSV, one row per event.
func (uc *ExportUseCase) EventsCSV(ctx context.Context, clientID string, from, to *time.Time, status string) ([]byte, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	events, err := uc.eventRepo.List(clientID, from, to, status, 10000, 0)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"event_id", "event_date", "service_code", "reference_type", "qty",
		"pricing_policy", "unit_price_thb", "amount_thb", "unit_price_krw", "amount_krw",
		"fx_rate_thb_krw", "status", "invoice_id"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, ev := range events {
		row := []string{
			ev.ID,
			ev.EventDate.Format("2006-01-02"),
			ev.ServiceCode,
			ev.ReferenceType,
			ev.Qty.String(),
			ev.PricingPolicy,
			ev.UnitPriceTHB.String(),
			decOrEmpty(ev.AmountTHB),
			ev.UnitPriceKRW.String(),
			decOrEmpty(ev.AmountKRW),
			decOrEmpty(ev.FxRateTHBKRW),
			ev.Status,
			strOrEmpty(ev.InvoiceID),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decOrEmpty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
