package usecase

import (
	"context"
	"time"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// ClientUseCase covers the client registry (read-mostly collaborator input).
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase builds the use case.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// CreateClientInput registers a billed customer.
type CreateClientInput struct {
	Code               string
	Name               string
	DefaultWarehouseID *string
	ContactEmail       string
}

// CreateClient registers a client. Codes are unique (ErrDuplicate).
func (uc *ClientUseCase) CreateClient(ctx context.Context, in CreateClientInput) (*entity.Client, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		Code:               in.Code,
		Name:               in.Name,
		DefaultWarehouseID: in.DefaultWarehouseID,
		ContactEmail:       in.ContactEmail,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient returns a client or ErrNotFound.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// ListClients returns clients ordered by code.
func (uc *ClientUseCase) ListClients(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.clientRepo.List(limit, offset)
}
