package repository

// InvoiceSequenceRepository issues per-client-month invoice sequence numbers.
type InvoiceSequenceRepository interface {
	// Next creates the (client, yyyymm) counter at 1 if absent, otherwise
	// increments it, under an exclusive row lock. Must run inside the same
	// transaction as the invoice insert so a full rollback also rolls the
	// counter back.
	Next(clientID, yyyymm string) (int, error)
}
