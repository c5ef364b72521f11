package entity

import "time"

// Service is a catalog entry mapping a service code to the description
// printed on invoice items (storage, handling, customs, trucking...).
type Service struct {
	Code      string
	Name      string
	NameKo    string // Korean description, preferred on invoices when present
	CreatedAt time.Time
}

// Description returns the invoice-facing description for the service.
func (s Service) Description() string {
	if s.NameKo != "" {
		return s.NameKo
	}
	return s.Name
}
