package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the settlement state of an actual transaction.
type TransactionStatus string

const (
	StatusPending           TransactionStatus = "pending"
	StatusPartiallyPaid     TransactionStatus = "partially_paid"
	StatusPartiallyReceived TransactionStatus = "partially_received"
	StatusPaid              TransactionStatus = "paid"
	StatusReceived          TransactionStatus = "received"
	StatusWrittenOff        TransactionStatus = "written_off"
)

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(s string) (TransactionStatus, error) {
	status := TransactionStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case StatusPending, StatusPartiallyPaid, StatusPartiallyReceived,
		StatusPaid, StatusReceived, StatusWrittenOff:
		return status, nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// IsSettled reports whether no more money is expected for the transaction.
func (s TransactionStatus) IsSettled() bool {
	return s == StatusPaid || s == StatusReceived || s == StatusWrittenOff
}

// Payment is a settled amount recorded against an actual transaction.
type Payment struct {
	PaymentDate    time.Time
	PaidAmount     decimal.Decimal
	IsFinalPayment bool
}

// ActualTransaction is a recorded invoice or obligation, independent of the
// budget. Date is the due date.
type ActualTransaction struct {
	ID         string
	Label      string
	Category   string
	ThirdParty string
	Date       time.Time
	Amount     decimal.Decimal
	Direction  Direction
	Status     TransactionStatus
	Payments   []Payment
}

// PaidTotal returns the sum of all payments.
func (t ActualTransaction) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range t.Payments {
		total = total.Add(p.PaidAmount)
	}
	return total
}

// Remainder returns the amount still expected, Amount minus PaidTotal.
func (t ActualTransaction) Remainder() decimal.Decimal {
	return t.Amount.Sub(t.PaidTotal())
}

// IsOverdue reports whether the transaction is unsettled, due strictly before
// today, and still has a remainder above tolerance.
func (t ActualTransaction) IsOverdue(today time.Time, tolerance decimal.Decimal) bool {
	if t.Status.IsSettled() || !t.Date.Before(today) {
		return false
	}
	return t.Remainder().GreaterThan(tolerance)
}
