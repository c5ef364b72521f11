package repository

import "github.com/krlogis/wms-backoffice/internal/domain/entity"

// OrderRepository is the persistence port for shipment orders and their
// status audit trail.
type OrderRepository interface {
	Create(order *entity.ShipmentOrder) error
	GetByID(id string) (*entity.ShipmentOrder, error)
	GetByIDForUpdate(id string) (*entity.ShipmentOrder, error)
	UpdateStatus(order *entity.ShipmentOrder) error
	List(clientID, direction string, limit, offset int) ([]*entity.ShipmentOrder, error)
	CreateStatusLog(log *entity.OrderStatusLog) error
	ListStatusLogs(orderID string) ([]*entity.OrderStatusLog, error)
}
