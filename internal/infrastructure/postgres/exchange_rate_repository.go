package postgres

import (
	"context"
	"errors"
	"fmt"

	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

// ExchangeRateRepo implements ExchangeRateRepository over PostgreSQL
// (usable with pool or tx).
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository builds the adapter. Pass pool or tx (Querier).
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

const rateColumns = `id, rate_date, base_currency, quote_currency, rate, status, locked, entered_by, created_at, updated_at, deleted_at`

// Create persists a manually entered rate. At most one active rate per
// (base, quote, rate_date): the partial unique index surfaces as ErrDuplicate.
func (r *ExchangeRateRepo) Create(rate *entity.ExchangeRate) error {
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	query := `
		INSERT INTO exchange_rates (id, rate_date, base_currency, quote_currency, rate, status, locked, entered_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		rate.ID, rate.RateDate, rate.BaseCurrency, rate.QuoteCurrency,
		rate.Rate, rate.Status, rate.Locked, rate.EnteredBy,
		rate.CreatedAt, rate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert exchange rate: %w", err)
	}
	return nil
}

// GetByID returns a rate or (nil, nil) when absent.
func (r *ExchangeRateRepo) GetByID(id string) (*entity.ExchangeRate, error) {
	query := `SELECT ` + rateColumns + ` FROM exchange_rates WHERE id = $1 AND deleted_at IS NULL`
	rate, err := scanRate(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exchange rate: %w", err)
	}
	return rate, nil
}

// FindApplicableForUpdate returns the most recent active non-deleted rate
// with rate_date <= onOrBefore and locks the row. Highest id wins on ties
// (most recently inserted).
func (r *ExchangeRateRepo) FindApplicableForUpdate(base, quote string, onOrBefore time.Time) (*entity.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE base_currency = $1 AND quote_currency = $2
		  AND status = $3 AND deleted_at IS NULL
		  AND rate_date <= $4
		ORDER BY rate_date DESC, id DESC
		LIMIT 1
		FOR UPDATE`
	rate, err := scanRate(r.q.QueryRow(context.Background(), query, base, quote, entity.RateStatusActive, onOrBefore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find applicable rate: %w", err)
	}
	return rate, nil
}

// Lock idempotently sets locked=true. Rates are never unlocked.
func (r *ExchangeRateRepo) Lock(id string) error {
	query := `UPDATE exchange_rates SET locked = true, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("lock exchange rate: %w", err)
	}
	return nil
}

// Update rewrites rate value, date and status. Mutability is checked by the
// use case before calling this.
func (r *ExchangeRateRepo) Update(rate *entity.ExchangeRate) error {
	query := `
		UPDATE exchange_rates
		SET rate_date = $2, rate = $3, status = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		rate.ID, rate.RateDate, rate.Rate, rate.Status, rate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update exchange rate: %w", err)
	}
	return nil
}

// SoftDelete frees the rate date slot without losing the row.
func (r *ExchangeRateRepo) SoftDelete(id string) error {
	query := `UPDATE exchange_rates SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("soft delete exchange rate: %w", err)
	}
	return nil
}

// IsReferencedByInvoice reports whether any non-deleted invoice carries this
// rate value. Referenced rates are immutable even when not locked.
func (r *ExchangeRateRepo) IsReferencedByInvoice(rate decimal.Decimal) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invoices WHERE fx_rate_thbkrw = $1 AND deleted_at IS NULL)`
	var referenced bool
	if err := r.q.QueryRow(context.Background(), query, rate).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check rate references: %w", err)
	}
	return referenced, nil
}

// List returns rates newest first.
func (r *ExchangeRateRepo) List(limit, offset int) ([]*entity.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE deleted_at IS NULL
		ORDER BY rate_date DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExchangeRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		list = append(list, rate)
	}
	return list, rows.Err()
}

func scanRate(row pgx.Row) (*entity.ExchangeRate, error) {
	var rate entity.ExchangeRate
	err := row.Scan(
		&rate.ID, &rate.RateDate, &rate.BaseCurrency, &rate.QuoteCurrency,
		&rate.Rate, &rate.Status, &rate.Locked, &rate.EnteredBy,
		&rate.CreatedAt, &rate.UpdatedAt, &rate.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
