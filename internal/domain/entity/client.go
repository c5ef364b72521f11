package entity

import "time"

// Client is a billed warehouse customer. Code is the short identifier
// embedded in invoice numbers (KRW-{code}-...).
type Client struct {
	ID                 string
	Code               string
	Name               string
	DefaultWarehouseID *string
	ContactEmail       string
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
