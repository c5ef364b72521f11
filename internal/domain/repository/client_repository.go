package repository

import "github.com/krlogis/wms-backoffice/internal/domain/entity"

// ClientRepository is the read/write port for the client registry.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	GetByCode(code string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
}
