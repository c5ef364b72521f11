package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// EventUseCase manages the billing event ledger: entry of chargeable events
// and the bulk revert path for draft invoices.
type EventUseCase struct {
	txRunner   BillingTxRunner
	eventRepo  repository.BillingEventRepository
	clientRepo repository.ClientRepository
}

// NewEventUseCase builds the use case.
func NewEventUseCase(txRunner BillingTxRunner, eventRepo repository.BillingEventRepository, clientRepo repository.ClientRepository) *EventUseCase {
	return &EventUseCase{txRunner: txRunner, eventRepo: eventRepo, clientRepo: clientRepo}
}

// CreateEventInput is a manually or system-entered chargeable event.
type CreateEventInput struct {
	ClientID      string
	WarehouseID   *string
	ServiceCode   string
	ReferenceType string
	ReferenceID   *string
	EventDate     time.Time
	Qty           decimal.Decimal
	PricingPolicy string
	UnitPriceTHB  decimal.Decimal
	AmountTHB     *decimal.Decimal
	UnitPriceKRW  decimal.Decimal
	AmountKRW     *decimal.Decimal
	CreatedBy     string
}

// CreateEvent validates the pricing policy branch and records a PENDING
// event. The warehouse falls back to the client's default when not given.
func (uc *EventUseCase) CreateEvent(ctx context.Context, in CreateEventInput) (*entity.BillingEvent, error) {
	if in.ClientID == "" || in.ServiceCode == "" || in.EventDate.IsZero() || in.CreatedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Qty.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	switch in.PricingPolicy {
	case entity.PricingTHBBased:
		if in.AmountTHB == nil && (in.UnitPriceTHB.LessThanOrEqual(decimal.Zero) || in.Qty.IsZero()) {
			return nil, domain.ErrInvalidInput
		}
	case entity.PricingKRWFixed:
		if in.AmountKRW == nil && (in.UnitPriceKRW.LessThanOrEqual(decimal.Zero) || in.Qty.IsZero()) {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	warehouseID := in.WarehouseID
	if warehouseID == nil {
		warehouseID = client.DefaultWarehouseID
	}
	refType := in.ReferenceType
	if refType == "" {
		refType = entity.RefTypeManual
	}

	now := time.Now()
	ev := &entity.BillingEvent{
		ClientID:      in.ClientID,
		WarehouseID:   warehouseID,
		ServiceCode:   in.ServiceCode,
		ReferenceType: refType,
		ReferenceID:   in.ReferenceID,
		EventDate:     in.EventDate,
		Qty:           in.Qty,
		PricingPolicy: in.PricingPolicy,
		UnitPriceTHB:  in.UnitPriceTHB,
		AmountTHB:     in.AmountTHB,
		UnitPriceKRW:  in.UnitPriceKRW,
		AmountKRW:     in.AmountKRW,
		Status:        entity.EventStatusPending,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.eventRepo.Create(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// MarkEventsPending bulk-reverts invoiced events back to PENDING, clearing
// their invoice link and frozen rate. Only events whose owning invoice is
// still a draft (or already gone) may be reverted; any event on an issued or
// paid invoice fails the whole batch with ErrEventsLocked.
func (uc *EventUseCase) MarkEventsPending(ctx context.Context, eventIDs []string) (int, error) {
	if len(eventIDs) == 0 {
		return 0, domain.ErrInvalidInput
	}
	var updated int
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.ExchangeRateRepository,
		eventRepo repository.BillingEventRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.InvoiceSequenceRepository,
		_ repository.ServiceRepository,
	) error {
		events, err := eventRepo.GetByIDsForUpdate(eventIDs)
		if err != nil {
			return err
		}
		if len(events) != len(eventIDs) {
			return domain.ErrEventsNotFound
		}
		checked := make(map[string]bool)
		for _, ev := range events {
			if ev.InvoiceID == nil || checked[*ev.InvoiceID] {
				continue
			}
			inv, err := invoiceRepo.GetByID(*ev.InvoiceID)
			if err != nil {
				return err
			}
			// A soft-deleted invoice no longer holds its events.
			if inv != nil && inv.Status != entity.InvoiceStatusDraft {
				return domain.ErrEventsLocked
			}
			checked[*ev.InvoiceID] = true
		}
		if err := eventRepo.RevertToPending(eventIDs); err != nil {
			return err
		}
		updated = len(eventIDs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// ListEvents returns a client's ledger slice for review and export.
func (uc *EventUseCase) ListEvents(ctx context.Context, clientID string, from, to *time.Time, status string, limit, offset int) ([]*entity.BillingEvent, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.eventRepo.List(clientID, from, to, status, limit, offset)
}
