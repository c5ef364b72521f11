package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

// InvoiceRepository is the persistence port for invoices and their items.
type InvoiceRepository interface {
	Create(inv *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	// GetByClientMonthForUpdate returns the non-deleted invoice for the
	// (client, YYYY-MM) slot with its row locked, or (nil, nil).
	GetByClientMonthForUpdate(clientID, invoiceMonth string) (*entity.Invoice, error)
	// UpdateTotals persists the final subtotal/VAT/total after aggregation.
	UpdateTotals(id string, subtotal, vat, total decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(id, status string, updatedAt time.Time) error
	SoftDelete(id string) error
	SoftDeleteItems(invoiceID string) error
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)
	List(clientID string, limit, offset int) ([]*entity.Invoice, error)
}
