package billing

import (
	"context"

	"github.com/krlogis/wms-backoffice/internal/domain"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// InvoiceQueryUseCase is the read side for invoices (detail and listings).
type InvoiceQueryUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

// NewInvoiceQueryUseCase builds the use case.
func NewInvoiceQueryUseCase(invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{invoiceRepo: invoiceRepo, clientRepo: clientRepo}
}

// InvoiceDetail is an invoice with its items and the owning client.
type InvoiceDetail struct {
	Invoice *entity.Invoice
	Items   []*entity.InvoiceItem
	Client  *entity.Client
}

// GetInvoice returns an invoice with items, or ErrNotFound.
func (uc *InvoiceQueryUseCase) GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetail{Invoice: inv, Items: items, Client: client}, nil
}

// ListInvoices returns a client's invoices, newest month first.
func (uc *InvoiceQueryUseCase) ListInvoices(ctx context.Context, clientID string, limit, offset int) ([]*entity.Invoice, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.invoiceRepo.List(clientID, limit, offset)
}
