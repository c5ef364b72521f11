package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/domain"
)

// ExportHandler serves downloadable artifacts: invoice PDF and Excel plus
// the billing event ledger as CSV (protected).
type ExportHandler struct {
	uc *billing.ExportUseCase
}

// NewExportHandler builds the handler.
func NewExportHandler(uc *billing.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// InvoicePDF streams the invoice as PDF.
// GET /api/invoices/:id/pdf
func (h *ExportHandler) InvoicePDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.InvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// InvoiceExcel streams the invoice as an xlsx workbook.
// GET /api/invoices/:id/excel
func (h *ExportHandler) InvoiceExcel(c *fiber.Ctx) error {
	data, filename, err := h.uc.InvoiceExcel(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// EventsCSV streams a client's ledger slice as CSV.
// GET /api/billing-events/export?client_id=...&status=...&from=...&to=...
func (h *ExportHandler) EventsCSV(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return writeDomainError(c, domain.ErrInvalidInput)
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return writeDomainError(c, domain.ErrInvalidInput)
		}
		to = &t
	}
	data, err := h.uc.EventsCSV(c.Context(), c.Query("client_id"), from, to, c.Query("status"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="billing-events.csv"`)
	return c.Send(data)
}
