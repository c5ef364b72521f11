package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/krlogis/wms-backoffice/internal/application/dto"
	"github.com/krlogis/wms-backoffice/internal/domain"
)

// writeDomainError maps domain sentinels onto HTTP statuses with a stable
// error code. Unknown errors become 500 INTERNAL.
func writeDomainError(c *fiber.Ctx, err error) error {
	var status int
	var code, message string
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, message = fiber.StatusBadRequest, "VALIDATION", "invalid request data"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, message = fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		status, code, message = fiber.StatusForbidden, "FORBIDDEN", "access denied"
	case errors.Is(err, domain.ErrNotFound):
		status, code, message = fiber.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrEventsNotFound):
		status, code, message = fiber.StatusNotFound, "EVENTS_NOT_FOUND", "one or more billing events not found"
	case errors.Is(err, domain.ErrDuplicate):
		status, code, message = fiber.StatusConflict, "DUPLICATE", "resource already exists"
	case errors.Is(err, domain.ErrAlreadyFinalized):
		status, code, message = fiber.StatusConflict, "ALREADY_FINALIZED", "invoice for this month is issued or paid"
	case errors.Is(err, domain.ErrEventsLocked):
		status, code, message = fiber.StatusConflict, "EVENTS_LOCKED", "events belong to a finalized invoice"
	case errors.Is(err, domain.ErrRateLocked):
		status, code, message = fiber.StatusConflict, "RATE_LOCKED", "rate is locked or referenced by an invoice"
	case errors.Is(err, domain.ErrInvalidStatus):
		status, code, message = fiber.StatusPreconditionFailed, "INVALID_STATUS", "status transition not allowed"
	case errors.Is(err, domain.ErrRateNotFound):
		status, code, message = fiber.StatusPreconditionFailed, "NO_APPLICABLE_RATE", "no active exchange rate on or before the invoice date"
	case errors.Is(err, domain.ErrNoPendingEvents):
		status, code, message = fiber.StatusPreconditionFailed, "NO_PENDING_EVENTS", "no pending billing events in the month"
	default:
		status, code, message = fiber.StatusInternalServerError, "INTERNAL", err.Error()
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}
