package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implements OrderRepository over PostgreSQL (usable with pool or tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository builds the adapter. Pass pool or tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, client_id, warehouse_id, direction, order_no, status, cargo_desc,
	pallets, weight_kg, order_date, created_by, created_at, updated_at`

// Create persists a shipment order. Order numbers are unique.
func (r *OrderRepo) Create(order *entity.ShipmentOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO shipment_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.ClientID, order.WarehouseID, order.Direction, order.OrderNo,
		order.Status, order.CargoDesc, order.Pallets, order.WeightKg, order.OrderDate,
		order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert shipment order: %w", err)
	}
	return nil
}

// GetByID returns an order or (nil, nil) when absent.
func (r *OrderRepo) GetByID(id string) (*entity.ShipmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM shipment_orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetByIDForUpdate returns an order with its row locked, serializing
// concurrent status changes.
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.ShipmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM shipment_orders WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// UpdateStatus persists a status transition.
func (r *OrderRepo) UpdateStatus(order *entity.ShipmentOrder) error {
	query := `UPDATE shipment_orders SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, order.ID, order.Status, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// List returns orders for a client, optionally filtered by direction,
// newest first.
func (r *OrderRepo) List(clientID, direction string, limit, offset int) ([]*entity.ShipmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM shipment_orders WHERE client_id = $1`
	args := []any{clientID}
	pos := 2
	if direction != "" {
		query += fmt.Sprintf(" AND direction = $%d", pos)
		args = append(args, direction)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY order_date DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipment orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ShipmentOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// CreateStatusLog appends one audit row for a status transition.
func (r *OrderRepo) CreateStatusLog(log *entity.OrderStatusLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_status_logs (id, order_id, from_status, to_status, changed_by, changed_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.OrderID, log.FromStatus, log.ToStatus, log.ChangedBy, log.ChangedAt, log.Note,
	)
	if err != nil {
		return fmt.Errorf("insert order status log: %w", err)
	}
	return nil
}

// ListStatusLogs returns the audit trail of an order, oldest first.
func (r *OrderRepo) ListStatusLogs(orderID string) ([]*entity.OrderStatusLog, error) {
	query := `
		SELECT id, order_id, from_status, to_status, changed_by, changed_at, note
		FROM order_status_logs WHERE order_id = $1 ORDER BY changed_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order status logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderStatusLog
	for rows.Next() {
		var l entity.OrderStatusLog
		if err := rows.Scan(&l.ID, &l.OrderID, &l.FromStatus, &l.ToStatus, &l.ChangedBy, &l.ChangedAt, &l.Note); err != nil {
			return nil, fmt.Errorf("scan order status log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *OrderRepo) getOne(query string, args ...any) (*entity.ShipmentOrder, error) {
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment order: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.ShipmentOrder, error) {
	var o entity.ShipmentOrder
	err := row.Scan(
		&o.ID, &o.ClientID, &o.WarehouseID, &o.Direction, &o.OrderNo, &o.Status,
		&o.CargoDesc, &o.Pallets, &o.WeightKg, &o.OrderDate,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
