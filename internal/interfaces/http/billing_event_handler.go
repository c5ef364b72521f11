package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/application/dto"
	"github.com/krlogis/wms-backoffice/internal/domain"
)

// BillingEventHandler serves the billing event ledger (protected).
type BillingEventHandler struct {
	uc *billing.EventUseCase
}

// NewBillingEventHandler builds the handler.
func NewBillingEventHandler(uc *billing.EventUseCase) *BillingEventHandler {
	return &BillingEventHandler{uc: uc}
}

// Create records one chargeable event as PENDING.
// POST /api/billing-events
func (h *BillingEventHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateBillingEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	eventDate, err := time.Parse("2006-01-02", in.EventDate)
	if err != nil {
		return writeDomainError(c, domain.ErrInvalidInput)
	}
	ev, err := h.uc.CreateEvent(c.Context(), billing.CreateEventInput{
		ClientID:      in.ClientID,
		WarehouseID:   in.WarehouseID,
		ServiceCode:   in.ServiceCode,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		EventDate:     eventDate,
		Qty:           in.Qty,
		PricingPolicy: in.PricingPolicy,
		UnitPriceTHB:  in.UnitPriceTHB,
		AmountTHB:     in.AmountTHB,
		UnitPriceKRW:  in.UnitPriceKRW,
		AmountKRW:     in.AmountKRW,
		CreatedBy:     userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewBillingEventResponse(ev))
}

// MarkPending bulk-reverts invoiced events back to PENDING. Fails the whole
// batch when any event sits on an issued or paid invoice.
// POST /api/billing-events/mark-pending
func (h *BillingEventHandler) MarkPending(c *fiber.Ctx) error {
	var in dto.MarkEventsPendingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	updated, err := h.uc.MarkEventsPending(c.Context(), in.EventIDs)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// List returns a client's ledger slice.
// GET /api/billing-events?client_id=...&status=...&from=...&to=...
func (h *BillingEventHandler) List(c *fiber.Ctx) error {
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
	events, err := h.uc.ListEvents(c.Context(), c.Query("client_id"), from, to, c.Query("status"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.BillingEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.NewBillingEventResponse(ev))
	}
	return c.JSON(out)
}
