package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is a reporting bucket covering [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && d.Before(p.End)
}

// LastDay returns the last calendar day inside the period.
func (p Period) LastDay() time.Time {
	return p.End.AddDate(0, 0, -1)
}

// Totals holds the budgeted and actual amounts of one direction in one period.
type Totals struct {
	Budget decimal.Decimal
	Actual decimal.Decimal
}

// PeriodBalance is the cash position of one period. Closing equals Opening
// plus Inflow minus Outflow plus CarryForward.
type PeriodBalance struct {
	Period       Period
	Opening      decimal.Decimal
	Inflow       decimal.Decimal
	Outflow      decimal.Decimal
	CarryForward decimal.Decimal
	Closing      decimal.Decimal
	// Projected is true when the period was computed from planned totals.
	Projected bool
}
