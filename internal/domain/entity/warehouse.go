package entity

import "time"

// Warehouse is a physical storage site in Thailand.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Province  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
