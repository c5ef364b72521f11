package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/dto"
	"github.com/krlogis/wms-backoffice/internal/application/usecase"
	"github.com/krlogis/wms-backoffice/internal/domain"
)

// OrderHandler serves shipment order entry and status workflow (protected).
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler builds the handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create registers an inbound or outbound order in SCHEDULED status.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	var orderDate time.Time
	if in.OrderDate != "" {
		var err error
		orderDate, err = time.Parse("2006-01-02", in.OrderDate)
		if err != nil {
			return writeDomainError(c, domain.ErrInvalidInput)
		}
	}
	order, err := h.uc.CreateOrder(c.Context(), usecase.CreateOrderInput{
		ClientID:    in.ClientID,
		WarehouseID: in.WarehouseID,
		Direction:   in.Direction,
		OrderNo:     in.OrderNo,
		CargoDesc:   in.CargoDesc,
		Pallets:     in.Pallets,
		WeightKg:    in.WeightKg,
		OrderDate:   orderDate,
		CreatedBy:   userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// ChangeStatus applies one forward transition and appends the audit row.
// PATCH /api/orders/:id/status
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.ChangeOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	order, err := h.uc.ChangeStatus(c.Context(), c.Params("id"), in.Status, userID, in.Note)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// GetByID returns the order with its audit trail.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, logs, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewOrderDetailResponse(order, logs))
}

// List returns a client's orders, optionally filtered by direction.
// GET /api/orders?client_id=...&direction=...
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.uc.ListOrders(c.Context(), c.Query("client_id"), c.Query("direction"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, dto.NewOrderResponse(order))
	}
	return c.JSON(out)
}
