package postgres

import (
	"context"
	"fmt"

	"github.com/krlogis/wms-backoffice/internal/domain/repository"
)

var _ repository.InvoiceSequenceRepository = (*InvoiceSequenceRepo)(nil)

// InvoiceSequenceRepo implements the per-client-month invoice counter over
// PostgreSQL. Must be used inside the generation transaction: the upsert
// takes a row lock, and a full rollback rolls the increment back too.
type InvoiceSequenceRepo struct {
	q Querier
}

// NewInvoiceSequenceRepository builds the adapter. Pass pool or tx (Querier).
func NewInvoiceSequenceRepository(q Querier) *InvoiceSequenceRepo {
	return &InvoiceSequenceRepo{q: q}
}

// Next creates the (client, yyyymm) counter at 1 if absent, otherwise
// increments it. The ON CONFLICT upsert holds the row lock until commit, so
// concurrent generators for the same client-month serialize here.
func (r *InvoiceSequenceRepo) Next(clientID, yyyymm string) (int, error) {
	query := `
		INSERT INTO invoice_sequences (client_id, yyyymm, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (client_id, yyyymm)
		DO UPDATE SET last_seq = invoice_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int
	if err := r.q.QueryRow(context.Background(), query, clientID, yyyymm).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return seq, nil
}
