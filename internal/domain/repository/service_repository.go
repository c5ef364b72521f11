package repository

import "github.com/krlogis/wms-backoffice/internal/domain/entity"

// ServiceRepository is the read port for the service catalog
// (code → invoice item description).
type ServiceRepository interface {
	Create(svc *entity.Service) error
	GetByCode(code string) (*entity.Service, error)
	List() ([]*entity.Service, error)
}
