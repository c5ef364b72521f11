package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	domainbilling "github.com/krlogis/wms-backoffice/internal/domain/billing"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// GenerateInvoiceUseCase aggregates a client's pending billing events for a
// month into a draft KRW invoice, freezing the applicable THB→KRW rate.
// Everything runs in one transaction with row locks on the rate, the pending
// events, the invoice-for-month slot and the sequence counter.
type GenerateInvoiceUseCase struct {
	txRunner   BillingTxRunner
	clientRepo repository.ClientRepository
}

// NewGenerateInvoiceUseCase builds the use case.
func NewGenerateInvoiceUseCase(txRunner BillingTxRunner, clientRepo repository.ClientRepository) *GenerateInvoiceUseCase {
	return &GenerateInvoiceUseCase{txRunner: txRunner, clientRepo: clientRepo}
}

// GenerateInput is the request to generate (or reuse/regenerate) the invoice
// for one (client, month).
type GenerateInput struct {
	ClientID        string
	InvoiceMonth    string // YYYY-MM
	InvoiceDate     time.Time
	RegenerateDraft bool
	CreatedBy       string
}

// GenerateResult is the committed invoice plus generation metadata.
type GenerateResult struct {
	Invoice        *entity.Invoice
	Items          []*entity.InvoiceItem
	Reused         bool
	EventsConsumed int
}

type itemGroup struct {
	serviceCode string
	qty         decimal.Decimal
	amount      decimal.Decimal
}

// Generate runs the full generation workflow:
//  1. locate the existing invoice-for-month (locked) and branch on its status,
//  2. resolve and lock the applicable exchange rate,
//  3. load pending events (locked, insertion order),
//  4. allocate the invoice number and insert a draft header,
//  5. normalize each event to KRW and mark it INVOICED,
//  6. aggregate items by service code in first-seen order,
//  7. compute subtotal/VAT/total (truncated to 100 KRW) and append the VAT row,
//  8. persist the totals.
//
// Any failure rolls back the entire transaction, sequence increment included.
func (uc *GenerateInvoiceUseCase) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if in.ClientID == "" || in.CreatedBy == "" || in.InvoiceDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	from, to, err := monthRange(in.InvoiceMonth)
	if err != nil {
		return nil, err
	}

	// Client is read-only input: resolved outside the transaction.
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	var result GenerateResult
	err = uc.txRunner.RunBilling(ctx, func(
		rateRepo repository.ExchangeRateRepository,
		eventRepo repository.BillingEventRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.InvoiceSequenceRepository,
		serviceRepo repository.ServiceRepository,
	) error {
		// 1) Existing invoice for the slot. The row lock serializes
		// concurrent generation for the same (client, month).
		existing, err := invoiceRepo.GetByClientMonthForUpdate(in.ClientID, in.InvoiceMonth)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Status != entity.InvoiceStatusDraft {
				return domain.ErrAlreadyFinalized
			}
			if !in.RegenerateDraft {
				// Idempotent no-op: hand back the draft untouched.
				items, err := invoiceRepo.GetItems(existing.ID)
				if err != nil {
					return err
				}
				result = GenerateResult{Invoice: existing, Items: items, Reused: true}
				return nil
			}
			// Regenerate: release the draft's events and free the slot.
			// Rate locks are never released, even across regenerations; the
			// rate locked by the prior attempt stays locked.
			consumed, err := eventRepo.ListByInvoice(existing.ID)
			if err != nil {
				return err
			}
			ids := make([]string, len(consumed))
			for i, ev := range consumed {
				ids[i] = ev.ID
			}
			if err := eventRepo.RevertToPending(ids); err != nil {
				return err
			}
			if err := invoiceRepo.SoftDeleteItems(existing.ID); err != nil {
				return err
			}
			if err := invoiceRepo.SoftDelete(existing.ID); err != nil {
				return err
			}
		}

		// 2) Applicable rate for the invoice date, locked for the rest of time.
		rate, err := rateRepo.FindApplicableForUpdate(entity.CurrencyTHB, entity.CurrencyKRW, in.InvoiceDate)
		if err != nil {
			return err
		}
		if rate == nil {
			return domain.ErrRateNotFound
		}
		if err := rateRepo.Lock(rate.ID); err != nil {
			return err
		}
		fxRate := rate.Rate

		// 3) Pending events for the month, in insertion order.
		events, err := eventRepo.ListPendingForUpdate(in.ClientID, from, to)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return domain.ErrNoPendingEvents
		}

		// 4) Invoice number and draft header with placeholder totals.
		seq, err := seqRepo.Next(in.ClientID, monthKey(in.InvoiceMonth))
		if err != nil {
			return err
		}
		now := time.Now()
		inv := &entity.Invoice{
			ID:           uuid.New().String(),
			ClientID:     in.ClientID,
			InvoiceMonth: in.InvoiceMonth,
			InvoiceNo:    entity.InvoiceNumber(client.Code, monthKey(in.InvoiceMonth), seq),
			Status:       entity.InvoiceStatusDraft,
			IssueDate:    in.InvoiceDate,
			FxRateTHBKRW: fxRate,
			SubtotalKRW:  decimal.Zero,
			VatKRW:       decimal.Zero,
			TotalKRW:     decimal.Zero,
			CreatedBy:    in.CreatedBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}

		// 5) Normalize each event and mark it consumed. 6) Aggregate by
		// service code in first-seen order of the pending list.
		groupIdx := make(map[string]int)
		var groups []*itemGroup
		for _, ev := range events {
			amountKRW, err := domainbilling.NormalizedAmountKRW(ev, fxRate)
			if err != nil {
				return err
			}
			if err := eventRepo.MarkInvoiced(ev.ID, inv.ID, amountKRW, fxRate); err != nil {
				return err
			}
			idx, ok := groupIdx[ev.ServiceCode]
			if !ok {
				idx = len(groups)
				groupIdx[ev.ServiceCode] = idx
				groups = append(groups, &itemGroup{serviceCode: ev.ServiceCode})
			}
			groups[idx].qty = groups[idx].qty.Add(ev.Qty)
			groups[idx].amount = groups[idx].amount.Add(amountKRW)
		}

		var items []*entity.InvoiceItem
		subtotal := decimal.Zero
		for _, g := range groups {
			amount := domainbilling.TruncateToHundred(g.amount)
			item := &entity.InvoiceItem{
				ID:           uuid.New().String(),
				InvoiceID:    inv.ID,
				ServiceCode:  g.serviceCode,
				Description:  serviceDescription(serviceRepo, g.serviceCode),
				Qty:          g.qty,
				UnitPriceKRW: domainbilling.UnitPriceKRW(g.amount, g.qty),
				AmountKRW:    amount,
				CreatedAt:    now,
			}
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
			subtotal = subtotal.Add(amount)
		}

		// 7) Totals with the synthetic VAT row.
		subtotal = domainbilling.TruncateToHundred(subtotal)
		vat := domainbilling.ComputeVAT(subtotal)
		total := domainbilling.TruncateToHundred(subtotal.Add(vat))
		vatItem := &entity.InvoiceItem{
			ID:           uuid.New().String(),
			InvoiceID:    inv.ID,
			ServiceCode:  entity.ServiceCodeVAT,
			Description:  "VAT 7%",
			Qty:          decimal.NewFromInt(1),
			UnitPriceKRW: vat,
			AmountKRW:    vat,
			CreatedAt:    now,
		}
		if err := invoiceRepo.CreateItem(vatItem); err != nil {
			return err
		}
		items = append(items, vatItem)

		// 8) Final totals onto the header.
		inv.SubtotalKRW = subtotal
		inv.VatKRW = vat
		inv.TotalKRW = total
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.UpdateTotals(inv.ID, subtotal, vat, total, inv.UpdatedAt); err != nil {
			return err
		}

		result = GenerateResult{Invoice: inv, Items: items, EventsConsumed: len(events)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// serviceDescription resolves the invoice-facing description for a service
// code, falling back to the code itself for unknown services.
func serviceDescription(serviceRepo repository.ServiceRepository, code string) string {
	svc, err := serviceRepo.GetByCode(code)
	if err != nil || svc == nil {
		return code
	}
	return svc.Description()
}
