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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository over PostgreSQL (usable with
// pool or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass pool or tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, client_id, invoice_month, invoice_no, status, issue_date,
	fx_rate_thbkrw, subtotal_krw, vat_krw, total_krw, created_by, created_at, updated_at, deleted_at`

// Create persists the invoice header. Duplicate invoice numbers surface as
// ErrDuplicate.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, client_id, invoice_month, invoice_no, status, issue_date,
			fx_rate_thbkrw, subtotal_krw, vat_krw, total_krw, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.ClientID, inv.InvoiceMonth, inv.InvoiceNo, inv.Status, inv.IssueDate,
		inv.FxRateTHBKRW, inv.SubtotalKRW, inv.VatKRW, inv.TotalKRW,
		inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persists one invoice line. The seq insertion counter is assigned
// by the database and written back onto the entity.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, service_code, description, qty, unit_price_krw, amount_krw, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		item.ID, item.InvoiceID, item.ServiceCode, item.Description,
		item.Qty, item.UnitPriceKRW, item.AmountKRW, item.CreatedAt,
	).Scan(&item.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID returns a non-deleted invoice or (nil, nil).
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND deleted_at IS NULL`
	return r.getOne(query, id)
}

// GetByIDForUpdate returns a non-deleted invoice with its row locked.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.getOne(query, id)
}

// GetByClientMonthForUpdate returns the non-deleted invoice occupying the
// (client, YYYY-MM) slot, row locked, or (nil, nil). Serializes concurrent
// generation attempts for the same client-month.
func (r *InvoiceRepo) GetByClientMonthForUpdate(clientID, invoiceMonth string) (*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE client_id = $1 AND invoice_month = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1
		FOR UPDATE`
	return r.getOne(query, clientID, invoiceMonth)
}

// UpdateTotals writes the final aggregates after item generation.
func (r *InvoiceRepo) UpdateTotals(id string, subtotal, vat, total decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET subtotal_krw = $2, vat_krw = $3, total_krw = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, id, subtotal, vat, total, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice totals: %w", err)
	}
	return nil
}

// UpdateStatus moves the invoice to a new lifecycle status.
func (r *InvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	query := `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// SoftDelete frees the (client, month) slot for regeneration.
func (r *InvoiceRepo) SoftDelete(id string) error {
	query := `UPDATE invoices SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("soft delete invoice: %w", err)
	}
	return nil
}

// SoftDeleteItems removes all items of an invoice (regeneration recreates them).
func (r *InvoiceRepo) SoftDeleteItems(invoiceID string) error {
	query := `UPDATE invoice_items SET deleted_at = now() WHERE invoice_id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, invoiceID)
	if err != nil {
		return fmt.Errorf("soft delete invoice items: %w", err)
	}
	return nil
}

// GetItems returns the non-deleted items of an invoice in insertion order
// (seq ascending; all items of one generation share a created_at and ids are
// random uuids, so neither orders reliably).
func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, seq, invoice_id, service_code, description, qty, unit_price_krw, amount_krw, created_at, deleted_at
		FROM invoice_items
		WHERE invoice_id = $1 AND deleted_at IS NULL
		ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.Seq, &it.InvoiceID, &it.ServiceCode, &it.Description,
			&it.Qty, &it.UnitPriceKRW, &it.AmountKRW, &it.CreatedAt, &it.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List returns non-deleted invoices for a client, newest month first.
func (r *InvoiceRepo) List(clientID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE client_id = $1 AND deleted_at IS NULL
		ORDER BY invoice_month DESC, invoice_no DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) getOne(query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.ClientID, &inv.InvoiceMonth, &inv.InvoiceNo, &inv.Status, &inv.IssueDate,
		&inv.FxRateTHBKRW, &inv.SubtotalKRW, &inv.VatKRW, &inv.TotalKRW,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt, &inv.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
