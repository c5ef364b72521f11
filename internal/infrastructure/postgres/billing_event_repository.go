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

var _ repository.BillingEventRepository = (*BillingEventRepo)(nil)

// BillingEventRepo implements BillingEventRepository over PostgreSQL
// (usable with pool or tx).
type BillingEventRepo struct {
	q Querier
}

// NewBillingEventRepository builds the adapter. Pass pool or tx (Querier).
func NewBillingEventRepository(q Querier) *BillingEventRepo {
	return &BillingEventRepo{q: q}
}

const eventColumns = `id, seq, client_id, warehouse_id, service_code, reference_type, reference_id, event_date,
	qty, pricing_policy, unit_price_thb, amount_thb, unit_price_krw, amount_krw,
	fx_rate_thbkrw, status, invoice_id, created_by, created_at, updated_at`

// Create persists a new PENDING event. The seq insertion counter is assigned
// by the database and written back onto the entity.
func (r *BillingEventRepo) Create(ev *entity.BillingEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	query := `
		INSERT INTO billing_events (id, client_id, warehouse_id, service_code, reference_type, reference_id, event_date,
			qty, pricing_policy, unit_price_thb, amount_thb, unit_price_krw, amount_krw,
			fx_rate_thbkrw, status, invoice_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		ev.ID, ev.ClientID, ev.WarehouseID, ev.ServiceCode, ev.ReferenceType, ev.ReferenceID, ev.EventDate,
		ev.Qty, ev.PricingPolicy, ev.UnitPriceTHB, ev.AmountTHB, ev.UnitPriceKRW, ev.AmountKRW,
		ev.FxRateTHBKRW, ev.Status, ev.InvoiceID, ev.CreatedBy, ev.CreatedAt, ev.UpdatedAt,
	).Scan(&ev.Seq)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert billing event: %w", err)
	}
	return nil
}

// GetByID returns an event or (nil, nil) when absent.
func (r *BillingEventRepo) GetByID(id string) (*entity.BillingEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM billing_events WHERE id = $1`
	ev, err := scanEvent(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing event: %w", err)
	}
	return ev, nil
}

// GetByIDsForUpdate loads and row-locks the given events. Missing ids are
// simply absent from the result; the caller decides whether that is fatal.
func (r *BillingEventRepo) GetByIDsForUpdate(ids []string) ([]*entity.BillingEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM billing_events WHERE id = ANY($1) ORDER BY seq FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get billing events for update: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListPendingForUpdate returns all PENDING events for the client with
// event_date in [from, to), in insertion order (seq ascending), rows locked.
// Insertion order drives invoice item aggregation order and must be stable;
// ids are random uuids, so seq is the only reliable key.
func (r *BillingEventRepo) ListPendingForUpdate(clientID string, from, to time.Time) ([]*entity.BillingEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM billing_events
		WHERE client_id = $1 AND status = $2
		  AND event_date >= $3 AND event_date < $4
		ORDER BY seq
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, clientID, entity.EventStatusPending, from, to)
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// MarkInvoiced transitions one PENDING event to INVOICED, stamping the
// invoice link, the normalized KRW amount and the frozen rate.
func (r *BillingEventRepo) MarkInvoiced(id, invoiceID string, amountKRW, fxRate decimal.Decimal) error {
	query := `
		UPDATE billing_events
		SET status = $2, invoice_id = $3, amount_krw = $4, fx_rate_thbkrw = $5, updated_at = now()
		WHERE id = $1 AND status = $6`
	tag, err := r.q.Exec(context.Background(), query,
		id, entity.EventStatusInvoiced, invoiceID, amountKRW, fxRate, entity.EventStatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark event invoiced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventsNotFound
	}
	return nil
}

// RevertToPending clears invoice link and frozen rate and sets the events
// back to PENDING. The caller must have verified the owning invoice is draft.
func (r *BillingEventRepo) RevertToPending(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE billing_events
		SET status = $2, invoice_id = NULL, fx_rate_thbkrw = NULL, updated_at = now()
		WHERE id = ANY($1)`
	_, err := r.q.Exec(context.Background(), query, ids, entity.EventStatusPending)
	if err != nil {
		return fmt.Errorf("revert events to pending: %w", err)
	}
	return nil
}

// ListByInvoice returns the events consumed by an invoice, in insertion order.
func (r *BillingEventRepo) ListByInvoice(invoiceID string) ([]*entity.BillingEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM billing_events WHERE invoice_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list events by invoice: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// List returns events for a client with optional date range and status filter.
func (r *BillingEventRepo) List(clientID string, from, to *time.Time, status string, limit, offset int) ([]*entity.BillingEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM billing_events WHERE client_id = $1`
	args := []any{clientID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND event_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND event_date < $%d", pos)
		args = append(args, *to)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list billing events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func scanEvent(row pgx.Row) (*entity.BillingEvent, error) {
	var ev entity.BillingEvent
	err := row.Scan(
		&ev.ID, &ev.Seq, &ev.ClientID, &ev.WarehouseID, &ev.ServiceCode, &ev.ReferenceType, &ev.ReferenceID, &ev.EventDate,
		&ev.Qty, &ev.PricingPolicy, &ev.UnitPriceTHB, &ev.AmountTHB, &ev.UnitPriceKRW, &ev.AmountKRW,
		&ev.FxRateTHBKRW, &ev.Status, &ev.InvoiceID, &ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func collectEvents(rows pgx.Rows) ([]*entity.BillingEvent, error) {
	var list []*entity.BillingEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan billing event: %w", err)
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}
