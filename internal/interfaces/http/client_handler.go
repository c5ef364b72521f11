package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/dto"
	"github.com/krlogis/wms-backoffice/internal/application/usecase"
)

// ClientHandler serves the client registry (protected).
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler builds the handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create registers a billed customer.
// POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	client, err := h.uc.CreateClient(c.Context(), usecase.CreateClientInput{
		Code:               in.Code,
		Name:               in.Name,
		DefaultWarehouseID: in.DefaultWarehouseID,
		ContactEmail:       in.ContactEmail,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// GetByID returns one client.
// GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	client, err := h.uc.GetClient(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(client)
}

// List returns clients ordered by code.
// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.uc.ListClients(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(clients)
}
