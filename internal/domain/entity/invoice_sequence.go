package entity

// InvoiceSequence is the per-client-month counter behind invoice numbers.
// Advanced under a row lock inside the generation transaction: monotonic
// always, contiguous as long as transactions commit.
type InvoiceSequence struct {
	ClientID string
	YYYYMM   string
	LastSeq  int
}
