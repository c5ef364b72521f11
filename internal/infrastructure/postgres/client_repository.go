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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implements ClientRepository over PostgreSQL (usable with pool or tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository builds the adapter. Pass pool or tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, code, name, default_warehouse_id, contact_email, active, created_at, updated_at`

// Create persists a client. Codes are unique.
func (r *ClientRepo) Create(client *entity.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clients (id, code, name, default_warehouse_id, contact_email, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Code, client.Name, client.DefaultWarehouseID,
		client.ContactEmail, client.Active, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID returns a client or (nil, nil) when absent.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.getOne(query, id)
}

// GetByCode returns a client by its short code or (nil, nil).
func (r *ClientRepo) GetByCode(code string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE code = $1`
	return r.getOne(query, code)
}

// List returns clients ordered by code.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *ClientRepo) getOne(query string, args ...any) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.DefaultWarehouseID,
		&c.ContactEmail, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
