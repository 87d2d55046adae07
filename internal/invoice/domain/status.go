package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classify maps an invoice's amounts and due date to its status.
// Payment sufficiency is checked before due-date lateness: a fully paid
// invoice is PAID no matter how late it is, and any partial payment keeps
// it out of OVERDUE.
func Classify(total, paid decimal.Decimal, dueDate, now time.Time) InvoiceStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return InvoiceStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return InvoiceStatusPartiallyPaid
	case now.After(dueDate):
		return InvoiceStatusOverdue
	default:
		return InvoiceStatusPending
	}
}
