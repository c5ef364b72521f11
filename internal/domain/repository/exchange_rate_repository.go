package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

// ExchangeRateRepository is the persistence port for THB→KRW rates.
type ExchangeRateRepository interface {
	Create(rate *entity.ExchangeRate) error
	GetByID(id string) (*entity.ExchangeRate, error)
	// FindApplicableForUpdate returns the most recent active, non-deleted
	// rate with rate_date <= onOrBefore (ties broken by highest id) and
	// locks the row (SELECT FOR UPDATE). Returns (nil, nil) when none.
	FindApplicableForUpdate(base, quote string, onOrBefore time.Time) (*entity.ExchangeRate, error)
	// Lock idempotently sets locked=true. Never unlocked.
	Lock(id string) error
	Update(rate *entity.ExchangeRate) error
	SoftDelete(id string) error
	// IsReferencedByInvoice reports whether any non-deleted invoice carries
	// this rate value; such rates are immutable even if not locked.
	IsReferencedByInvoice(rate decimal.Decimal) (bool, error)
	List(limit, offset int) ([]*entity.ExchangeRate, error)
}
