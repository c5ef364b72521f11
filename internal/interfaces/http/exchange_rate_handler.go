package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/application/dto"
	"github.com/krlogis/wms-backoffice/internal/domain"
)

// ExchangeRateHandler serves manual THB→KRW rate entry (protected, finance).
type ExchangeRateHandler struct {
	uc *billing.RateUseCase
}

// NewExchangeRateHandler builds the handler.
func NewExchangeRateHandler(uc *billing.RateUseCase) *ExchangeRateHandler {
	return &ExchangeRateHandler{uc: uc}
}

// Create records a rate for a date. One active rate per date.
// POST /api/exchange-rates
func (h *ExchangeRateHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateExchangeRateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	rateDate, err := time.Parse("2006-01-02", in.RateDate)
	if err != nil {
		return writeDomainError(c, domain.ErrInvalidInput)
	}
	rate, err := h.uc.CreateRate(c.Context(), billing.CreateRateInput{
		RateDate:  rateDate,
		Rate:      in.Rate,
		Status:    in.Status,
		EnteredBy: userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewExchangeRateResponse(rate))
}

// Update rewrites a rate that is neither locked nor referenced.
// PUT /api/exchange-rates/:id
func (h *ExchangeRateHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateExchangeRateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	rateDate, err := time.Parse("2006-01-02", in.RateDate)
	if err != nil {
		return writeDomainError(c, domain.ErrInvalidInput)
	}
	rate, err := h.uc.UpdateRate(c.Context(), billing.UpdateRateInput{
		ID:       c.Params("id"),
		RateDate: rateDate,
		Rate:     in.Rate,
		Status:   in.Status,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewExchangeRateResponse(rate))
}

// Delete soft-deletes a still-mutable rate.
// DELETE /api/exchange-rates/:id
func (h *ExchangeRateHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteRate(c.Context(), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List returns rates newest first.
// GET /api/exchange-rates
func (h *ExchangeRateHandler) List(c *fiber.Ctx) error {
	rates, err := h.uc.ListRates(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.ExchangeRateResponse, 0, len(rates))
	for _, rate := range rates {
		out = append(out, dto.NewExchangeRateResponse(rate))
	}
	return c.JSON(out)
}
