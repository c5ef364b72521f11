package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// RateUseCase manages manual THB→KRW rate entry. Rates consumed by invoice
// generation (locked) or referenced by any invoice are immutable.
type RateUseCase struct {
	txRunner BillingTxRunner
	rateRepo repository.ExchangeRateRepository
}

// NewRateUseCase builds the use case.
func NewRateUseCase(txRunner BillingTxRunner, rateRepo repository.ExchangeRateRepository) *RateUseCase {
	return &RateUseCase{txRunner: txRunner, rateRepo: rateRepo}
}

// CreateRateInput is one manually entered daily rate.
type CreateRateInput struct {
	RateDate  time.Time
	Rate      decimal.Decimal
	Status    string
	EnteredBy string
}

// CreateRate records a THB→KRW rate for a date. At most one active rate per
// date; a second one fails with ErrDuplicate.
func (uc *RateUseCase) CreateRate(ctx context.Context, in CreateRateInput) (*entity.ExchangeRate, error) {
	if in.RateDate.IsZero() || in.EnteredBy == "" || !in.Rate.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.RateStatusActive
	}
	switch status {
	case entity.RateStatusDraft, entity.RateStatusActive, entity.RateStatusSuperseded:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	rate := &entity.ExchangeRate{
		RateDate:      in.RateDate,
		BaseCurrency:  entity.CurrencyTHB,
		QuoteCurrency: entity.CurrencyKRW,
		Rate:          in.Rate,
		Status:        status,
		EnteredBy:     in.EnteredBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.rateRepo.Create(rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// UpdateRateInput rewrites a still-mutable rate.
type UpdateRateInput struct {
	ID       string
	RateDate time.Time
	Rate     decimal.Decimal
	Status   string
}

// UpdateRate rewrites value/date/status of a rate that is neither locked nor
// referenced by an invoice. Immutable rates fail with ErrRateLocked.
func (uc *RateUseCase) UpdateRate(ctx context.Context, in UpdateRateInput) (*entity.ExchangeRate, error) {
	if in.ID == "" || in.RateDate.IsZero() || !in.Rate.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.ExchangeRate
	err := uc.txRunner.RunBilling(ctx, func(
		rateRepo repository.ExchangeRateRepository,
		_ repository.BillingEventRepository,
		_ repository.InvoiceRepository,
		_ repository.InvoiceSequenceRepository,
		_ repository.ServiceRepository,
	) error {
		rate, err := rateRepo.GetByID(in.ID)
		if err != nil {
			return err
		}
		if rate == nil {
			return domain.ErrNotFound
		}
		if err := uc.ensureMutable(rateRepo, rate); err != nil {
			return err
		}
		rate.RateDate = in.RateDate
		rate.Rate = in.Rate
		if in.Status != "" {
			rate.Status = in.Status
		}
		rate.UpdatedAt = time.Now()
		if err := rateRepo.Update(rate); err != nil {
			return err
		}
		updated = rate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRate soft-deletes a still-mutable rate.
func (uc *RateUseCase) DeleteRate(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunBilling(ctx, func(
		rateRepo repository.ExchangeRateRepository,
		_ repository.BillingEventRepository,
		_ repository.InvoiceRepository,
		_ repository.InvoiceSequenceRepository,
		_ repository.ServiceRepository,
	) error {
		rate, err := rateRepo.GetByID(id)
		if err != nil {
			return err
		}
		if rate == nil {
			return domain.ErrNotFound
		}
		if err := uc.ensureMutable(rateRepo, rate); err != nil {
			return err
		}
		return rateRepo.SoftDelete(id)
	})
}

// ListRates returns rates newest first.
func (uc *RateUseCase) ListRates(ctx context.Context, limit, offset int) ([]*entity.ExchangeRate, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.rateRepo.List(limit, offset)
}

// ensureMutable fails with ErrRateLocked when the rate is locked or any
// non-deleted invoice references its value.
func (uc *RateUseCase) ensureMutable(rateRepo repository.ExchangeRateRepository, rate *entity.ExchangeRate) error {
	if rate.Locked {
		return domain.ErrRateLocked
	}
	referenced, err := rateRepo.IsReferencedByInvoice(rate.Rate)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrRateLocked
	}
	return nil
}
