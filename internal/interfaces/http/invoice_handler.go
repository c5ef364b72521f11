package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/application/dto"
	"github.com/krlogis/wms-backoffice/internal/domain"
)

// InvoiceHandler serves invoice generation, lifecycle and reads (protected).
type InvoiceHandler struct {
	generateUC  *billing.GenerateInvoiceUseCase
	lifecycleUC *billing.LifecycleUseCase
	queryUC     *billing.InvoiceQueryUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(generateUC *billing.GenerateInvoiceUseCase, lifecycleUC *billing.LifecycleUseCase, queryUC *billing.InvoiceQueryUseCase) *InvoiceHandler {
	return &InvoiceHandler{generateUC: generateUC, lifecycleUC: lifecycleUC, queryUC: queryUC}
}

// Generate aggregates the client's pending events of a month into a draft
// invoice, freezing the exchange rate.
// POST /api/invoices/generate
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.GenerateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	invoiceDate, err := time.Parse("2006-01-02", in.InvoiceDate)
	if err != nil {
		return writeDomainError(c, domain.ErrInvalidInput)
	}
	res, err := h.generateUC.Generate(c.Context(), billing.GenerateInput{
		ClientID:        in.ClientID,
		InvoiceMonth:    in.InvoiceMonth,
		InvoiceDate:     invoiceDate,
		RegenerateDraft: in.Regenerate,
		CreatedBy:       userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	out := dto.GenerateInvoiceResponse{
		InvoiceDetailResponse: dto.NewInvoiceDetailResponse(res.Invoice, res.Items),
		Reused:                res.Reused,
		EventsConsumed:        res.EventsConsumed,
	}
	status := fiber.StatusCreated
	if res.Reused {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(out)
}

// GetByID returns the invoice with its items.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.queryUC.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewInvoiceDetailResponse(detail.Invoice, detail.Items))
}

// List returns a client's invoices, newest month first.
// GET /api/invoices?client_id=...&limit=...&offset=...
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.queryUC.ListInvoices(c.Context(), c.Query("client_id"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.NewInvoiceResponse(inv))
	}
	return c.JSON(out)
}

// Issue finalizes a draft invoice.
// POST /api/invoices/:id/issue
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	inv, err := h.lifecycleUC.Issue(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewInvoiceResponse(inv))
}

// MarkPaid records payment on an issued invoice.
// POST /api/invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	inv, err := h.lifecycleUC.MarkPaid(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewInvoiceResponse(inv))
}

// Duplicate copies a finalized invoice into a fresh draft for corrections.
// Admin only.
// POST /api/invoices/:id/duplicate
func (h *InvoiceHandler) Duplicate(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	inv, err := h.lifecycleUC.DuplicateForAdmin(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInvoiceResponse(inv))
}
