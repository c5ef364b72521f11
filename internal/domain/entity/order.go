package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment order directions.
const (
	OrderInbound  = "INBOUND"
	OrderOutbound = "OUTBOUND"
)

// Shipment order statuses. Inbound: SCHEDULED → RECEIVED → STORED.
// Outbound: SCHEDULED → PICKED → SHIPPED. CANCELLED only from SCHEDULED.
const (
	OrderStatusScheduled = "SCHEDULED"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusStored    = "STORED"
	OrderStatusPicked    = "PICKED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCancelled = "CANCELLED"
)

// ShipmentOrder is an inbound or outbound shipment tracked by the back office.
type ShipmentOrder struct {
	ID          string
	ClientID    string
	WarehouseID string
	Direction   string
	OrderNo     string
	Status      string
	CargoDesc   string
	Pallets     int
	WeightKg    decimal.Decimal
	OrderDate   time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderStatusLog is one audit row per status transition, actor attributed.
type OrderStatusLog struct {
	ID         string
	OrderID    string
	FromStatus string
	ToStatus   string
	ChangedBy  string
	ChangedAt  time.Time
	Note       string
}

var orderTransitions = map[string]map[string][]string{
	OrderInbound: {
		OrderStatusScheduled: {OrderStatusReceived, OrderStatusCancelled},
		OrderStatusReceived:  {OrderStatusStored},
	},
	OrderOutbound: {
		OrderStatusScheduled: {OrderStatusPicked, OrderStatusCancelled},
		OrderStatusPicked:    {OrderStatusShipped},
	},
}

// CanTransition reports whether an order of the given direction may move
// from one status to another. Terminal statuses have no outgoing edges.
func CanTransition(direction, from, to string) bool {
	for _, next := range orderTransitions[direction][from] {
		if next == to {
			return true
		}
	}
	return false
}
