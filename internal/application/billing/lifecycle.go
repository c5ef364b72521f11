package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// LifecycleUseCase enforces the draft → issued → paid state machine and the
// admin duplication path for corrections on finalized invoices.
type LifecycleUseCase struct {
	txRunner   BillingTxRunner
	clientRepo repository.ClientRepository
}

// NewLifecycleUseCase builds the use case.
func NewLifecycleUseCase(txRunner BillingTxRunner, clientRepo repository.ClientRepository) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, clientRepo: clientRepo}
}

// Issue moves a draft invoice to issued. Fails ErrNotFound when the invoice
// is missing, ErrInvalidStatus unless it is exactly draft.
func (uc *LifecycleUseCase) Issue(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	return uc.transition(ctx, invoiceID, entity.InvoiceStatusDraft, entity.InvoiceStatusIssued)
}

// MarkPaid moves an issued invoice to paid (terminal). Fails ErrNotFound
// when missing, ErrInvalidStatus unless it is exactly issued.
func (uc *LifecycleUseCase) MarkPaid(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	return uc.transition(ctx, invoiceID, entity.InvoiceStatusIssued, entity.InvoiceStatusPaid)
}

func (uc *LifecycleUseCase) transition(ctx context.Context, invoiceID, requiredStatus, nextStatus string) (*entity.Invoice, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.ExchangeRateRepository,
		_ repository.BillingEventRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.InvoiceSequenceRepository,
		_ repository.ServiceRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != requiredStatus {
			return domain.ErrInvalidStatus
		}
		inv.Status = nextStatus
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.UpdateStatus(inv.ID, inv.Status, inv.UpdatedAt); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DuplicateForAdmin copies a finalized (issued or paid) invoice and its items
// into a brand-new draft with a freshly allocated sequence number under the
// same client-month. Used for manual corrections without touching the
// original record. Drafts must use regeneration instead (ErrInvalidStatus).
func (uc *LifecycleUseCase) DuplicateForAdmin(ctx context.Context, invoiceID, createdBy string) (*entity.Invoice, error) {
	if invoiceID == "" || createdBy == "" {
		return nil, domain.ErrInvalidInput
	}
	var duplicate *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.ExchangeRateRepository,
		_ repository.BillingEventRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.InvoiceSequenceRepository,
		_ repository.ServiceRepository,
	) error {
		source, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if source == nil {
			return domain.ErrNotFound
		}
		if source.Status == entity.InvoiceStatusDraft {
			return domain.ErrInvalidStatus
		}
		client, err := uc.clientRepo.GetByID(source.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}

		seq, err := seqRepo.Next(source.ClientID, monthKey(source.InvoiceMonth))
		if err != nil {
			return err
		}
		now := time.Now()
		clone := *source
		clone.ID = uuid.New().String()
		clone.InvoiceNo = entity.InvoiceNumber(client.Code, monthKey(source.InvoiceMonth), seq)
		clone.Status = entity.InvoiceStatusDraft
		clone.CreatedBy = createdBy
		clone.CreatedAt = now
		clone.UpdatedAt = now
		if err := invoiceRepo.Create(&clone); err != nil {
			return err
		}

		items, err := invoiceRepo.GetItems(source.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			dup := *item
			dup.ID = uuid.New().String()
			dup.InvoiceID = clone.ID
			dup.CreatedAt = now
			if err := invoiceRepo.CreateItem(&dup); err != nil {
				return err
			}
		}
		duplicate = &clone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return duplicate, nil
}
