package billing

import (
	"context"

	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// BillingTxRunner executes a function inside one database transaction with
// the billing repositories bound to it. A non-nil error from fn rolls the
// whole transaction back; no partial invoice state is ever visible.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		rateRepo repository.ExchangeRateRepository,
		eventRepo repository.BillingEventRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.InvoiceSequenceRepository,
		serviceRepo repository.ServiceRepository,
	) error) error
}
