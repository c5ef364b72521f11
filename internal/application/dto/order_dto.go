package dto

import (
	"github.com/shopspring/decimal"

	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

// CreateOrderRequest registers an inbound or outbound shipment order.
type CreateOrderRequest struct {
	ClientID    string          `json:"client_id"`
	WarehouseID string          `json:"warehouse_id"`
	Direction   string          `json:"direction"` // INBOUND | OUTBOUND
	OrderNo     string          `json:"order_no"`
	CargoDesc   string          `json:"cargo_desc,omitempty"`
	Pallets     int             `json:"pallets"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	OrderDate   string          `json:"order_date,omitempty"` // YYYY-MM-DD
}

// ChangeOrderStatusRequest applies one state machine transition.
type ChangeOrderStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// OrderResponse is one shipment order.
type OrderResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	WarehouseID string          `json:"warehouse_id"`
	Direction   string          `json:"direction"`
	OrderNo     string          `json:"order_no"`
	Status      string          `json:"status"`
	CargoDesc   string          `json:"cargo_desc,omitempty"`
	Pallets     int             `json:"pallets"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	OrderDate   string          `json:"order_date"`
}

// OrderStatusLogResponse is one audit row.
type OrderStatusLogResponse struct {
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status"`
	ChangedBy  string `json:"changed_by"`
	ChangedAt  string `json:"changed_at"`
	Note       string `json:"note,omitempty"`
}

// OrderDetailResponse is the order with its audit trail.
type OrderDetailResponse struct {
	OrderResponse
	StatusLogs []OrderStatusLogResponse `json:"status_logs"`
}

// NewOrderResponse maps the entity.
func NewOrderResponse(order *entity.ShipmentOrder) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		ClientID:    order.ClientID,
		WarehouseID: order.WarehouseID,
		Direction:   order.Direction,
		OrderNo:     order.OrderNo,
		Status:      order.Status,
		CargoDesc:   order.CargoDesc,
		Pallets:     order.Pallets,
		WeightKg:    order.WeightKg,
		OrderDate:   order.OrderDate.Format(dateLayout),
	}
}

// NewOrderDetailResponse maps the order plus its audit trail.
func NewOrderDetailResponse(order *entity.ShipmentOrder, logs []*entity.OrderStatusLog) OrderDetailResponse {
	out := OrderDetailResponse{OrderResponse: NewOrderResponse(order)}
	for _, l := range logs {
		out.StatusLogs = append(out.StatusLogs, OrderStatusLogResponse{
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			ChangedBy:  l.ChangedBy,
			ChangedAt:  l.ChangedAt.Format("2006-01-02T15:04:05Z07:00"),
			Note:       l.Note,
		})
	}
	return out
}
