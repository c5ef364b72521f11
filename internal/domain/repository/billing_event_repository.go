package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

// BillingEventRepository is the persistence port for the billing event ledger.
type BillingEventRepository interface {
	Create(ev *entity.BillingEvent) error
	GetByID(id string) (*entity.BillingEvent, error)
	// GetByIDsForUpdate loads the given events with their rows locked.
	// Missing ids are simply absent from the result.
	GetByIDsForUpdate(ids []string) ([]*entity.BillingEvent, error)
	// ListPendingForUpdate returns all PENDING events for the client whose
	// event_date falls in [from, to), seq ascending (insertion order drives
	// aggregation order), rows locked.
	ListPendingForUpdate(clientID string, from, to time.Time) ([]*entity.BillingEvent, error)
	// MarkInvoiced transitions one PENDING event to INVOICED, stamping the
	// invoice link, the normalized KRW amount and the frozen rate.
	MarkInvoiced(id, invoiceID string, amountKRW, fxRate decimal.Decimal) error
	// RevertToPending clears invoice link and frozen rate, status back to
	// PENDING. Permission (owning invoice still draft) is the caller's job.
	RevertToPending(ids []string) error
	ListByInvoice(invoiceID string) ([]*entity.BillingEvent, error)
	List(clientID string, from, to *time.Time, status string, limit, offset int) ([]*entity.BillingEvent, error)
}
