package domain

import "errors"

// Domain errors (no external dependencies). All of them are raised from
// inside the request transaction; the transaction rolls back in full before
// any of these reach the caller.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access denied")

	// Invoice generation and lifecycle.
	ErrAlreadyFinalized = errors.New("invoice for this month is already issued or paid")
	ErrNoPendingEvents  = errors.New("no pending billing events for this month")
	ErrInvalidStatus    = errors.New("status does not allow this transition")

	// Exchange rates.
	ErrRateNotFound = errors.New("no applicable exchange rate")
	ErrRateLocked   = errors.New("exchange rate is locked or referenced by an invoice")

	// Billing events.
	ErrEventsNotFound = errors.New("one or more billing events not found")
	ErrEventsLocked   = errors.New("billing events belong to an issued or paid invoice")
)
