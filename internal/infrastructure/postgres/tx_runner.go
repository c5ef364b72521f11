package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/application/usecase"
	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

// Ensure TxRunner implements the application-layer runner ports.
var _ billing.BillingTxRunner = (*TxRunner)(nil)
var _ usecase.OrderTxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction, handing the
// callback repositories bound to the transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling opens a transaction with the full billing repo set (used by
// invoice generation, lifecycle and event operations) and commits or rolls
// back atomically.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	rateRepo repository.ExchangeRateRepository,
	eventRepo repository.BillingEventRepository,
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.InvoiceSequenceRepository,
	serviceRepo repository.ServiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rateRepo := NewExchangeRateRepository(tx)
	eventRepo := NewBillingEventRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)
	seqRepo := NewInvoiceSequenceRepository(tx)
	serviceRepo := NewServiceRepository(tx)

	if err := fn(rateRepo, eventRepo, invoiceRepo, seqRepo, serviceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrders opens a transaction scoped to shipment orders (status change plus
// its audit log row commit together).
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewOrderRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
