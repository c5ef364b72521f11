package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// OrderTxRunner executes a function inside a transaction scoped to shipment
// orders, so a status change and its audit row commit together.
type OrderTxRunner interface {
	RunOrders(ctx context.Context, fn func(orderRepo repository.OrderRepository) error) error
}

// OrderUseCase covers inbound/outbound shipment order entry and the simple
// finite-state status workflow with an audit trail.
type OrderUseCase struct {
	txRunner   OrderTxRunner
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
}

// NewOrderUseCase builds the use case.
func NewOrderUseCase(txRunner OrderTxRunner, orderRepo repository.OrderRepository, clientRepo repository.ClientRepository) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, orderRepo: orderRepo, clientRepo: clientRepo}
}

// CreateOrderInput is a new inbound or outbound shipment order.
type CreateOrderInput struct {
	ClientID    string
	WarehouseID string
	Direction   string
	OrderNo     string
	CargoDesc   string
	Pallets     int
	WeightKg    decimal.Decimal
	OrderDate   time.Time
	CreatedBy   string
}

// CreateOrder validates and records an order in SCHEDULED status, with the
// initial audit row.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.ShipmentOrder, error) {
	if in.ClientID == "" || in.WarehouseID == "" || in.OrderNo == "" || in.CreatedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Direction != entity.OrderInbound && in.Direction != entity.OrderOutbound {
		return nil, domain.ErrInvalidInput
	}
	if in.Pallets < 0 || in.WeightKg.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}
	order := &entity.ShipmentOrder{
		ClientID:    in.ClientID,
		WarehouseID: in.WarehouseID,
		Direction:   in.Direction,
		OrderNo:     in.OrderNo,
		Status:      entity.OrderStatusScheduled,
		CargoDesc:   in.CargoDesc,
		Pallets:     in.Pallets,
		WeightKg:    in.WeightKg,
		OrderDate:   orderDate,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.RunOrders(ctx, func(orderRepo repository.OrderRepository) error {
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		return orderRepo.CreateStatusLog(&entity.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: "",
			ToStatus:   entity.OrderStatusScheduled,
			ChangedBy:  in.CreatedBy,
			ChangedAt:  now,
			Note:       "order created",
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ChangeStatus applies one forward transition of the order state machine and
// appends the audit row, in one transaction with the order row locked.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, orderID, toStatus, actor, note string) (*entity.ShipmentOrder, error) {
	if orderID == "" || toStatus == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.ShipmentOrder
	err := uc.txRunner.RunOrders(ctx, func(orderRepo repository.OrderRepository) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(order.Direction, order.Status, toStatus) {
			return domain.ErrInvalidStatus
		}
		fromStatus := order.Status
		now := time.Now()
		order.Status = toStatus
		order.UpdatedAt = now
		if err := orderRepo.UpdateStatus(order); err != nil {
			return err
		}
		if err := orderRepo.CreateStatusLog(&entity.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: fromStatus,
			ToStatus:   toStatus,
			ChangedBy:  actor,
			ChangedAt:  now,
			Note:       note,
		}); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetOrder returns an order with its audit trail.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*entity.ShipmentOrder, []*entity.OrderStatusLog, error) {
	if id == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	logs, err := uc.orderRepo.ListStatusLogs(id)
	if err != nil {
		return nil, nil, err
	}
	return order, logs, nil
}

// ListOrders returns a client's orders, optionally filtered by direction.
func (uc *OrderUseCase) ListOrders(ctx context.Context, clientID, direction string, limit, offset int) ([]*entity.ShipmentOrder, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if direction != "" && direction != entity.OrderInbound && direction != entity.OrderOutbound {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.orderRepo.List(clientID, direction, limit, offset)
}
