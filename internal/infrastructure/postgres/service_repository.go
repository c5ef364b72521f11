package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implements the service catalog over PostgreSQL (usable with
// pool or tx).
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository builds the adapter. Pass pool or tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

// Create persists a catalog entry. Codes are the primary key.
func (r *ServiceRepo) Create(svc *entity.Service) error {
	query := `INSERT INTO services (code, name, name_ko, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, svc.Code, svc.Name, svc.NameKo, svc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByCode returns a catalog entry or (nil, nil) when absent.
func (r *ServiceRepo) GetByCode(code string) (*entity.Service, error) {
	query := `SELECT code, name, name_ko, created_at FROM services WHERE code = $1`
	var s entity.Service
	err := r.q.QueryRow(context.Background(), query, code).Scan(&s.Code, &s.Name, &s.NameKo, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}

// List returns the whole catalog ordered by code.
func (r *ServiceRepo) List() ([]*entity.Service, error) {
	query := `SELECT code, name, name_ko, created_at FROM services ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.Code, &s.Name, &s.NameKo, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
