package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceRule describes when a budget entry repeats. Dates are calendar
// dates (midnight UTC).
type RecurrenceRule struct {
	Frequency Frequency
	StartDate time.Time
	// EndDate is the last day an occurrence may fall on. Zero means none.
	EndDate time.Time
	// Indefinite rules ignore EndDate and run to the caller's horizon.
	Indefinite bool
}

// HasEnd reports whether generation is bounded by EndDate.
func (r RecurrenceRule) HasEnd() bool {
	return !r.Indefinite && !r.EndDate.IsZero()
}

// Validate checks the rule invariants.
func (r RecurrenceRule) Validate() error {
	if r.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			r.EndDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	return nil
}

// BudgetEntry is a planned revenue or expense line owning one recurrence rule.
type BudgetEntry struct {
	ID         string
	Label      string
	Category   string
	ThirdParty string
	Amount     decimal.Decimal
	Direction  Direction
	Rule       RecurrenceRule
}

// Occurrence is one dated instance of a budget entry.
type Occurrence struct {
	EntryID   string
	Label     string
	Category  string
	Date      time.Time
	Amount    decimal.Decimal
	Direction Direction
}

// SignedAmount returns the occurrence amount signed by its direction.
func (o Occurrence) SignedAmount() decimal.Decimal {
	return o.Direction.Signed(o.Amount)
}
