package billing

import (
	"strings"
	"time"

	"github.com/krlogis/wms-backoffice/internal/domain"
)

// monthRange converts an invoice month (YYYY-MM) into the half-open event
// date range [first day, first day of next month).
func monthRange(invoiceMonth string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01", invoiceMonth)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return from, from.AddDate(0, 1, 0), nil
}

// monthKey strips the dash: "2025-07" → "202507", the counter key and the
// month segment of invoice numbers.
func monthKey(invoiceMonth string) string {
	return strings.ReplaceAll(invoiceMonth, "-", "")
}
