// Package forecast exposes the recurrence expander, the period calculator and
// the cash-position projector to programs outside this module.
package forecast

import (
	"time"

	"fjacquet/cash-forecast/internal/aggregate"
	"fjacquet/cash-forecast/internal/models"
	"fjacquet/cash-forecast/internal/periods"
	"fjacquet/cash-forecast/internal/projector"
	"fjacquet/cash-forecast/internal/recurrence"
)

// Domain types re-exported for callers.
type (
	RecurrenceRule    = models.RecurrenceRule
	Frequency         = models.Frequency
	BudgetEntry       = models.BudgetEntry
	Occurrence        = models.Occurrence
	Period            = models.Period
	PeriodBalance     = models.PeriodBalance
	CashAccount       = models.CashAccount
	ActualTransaction = models.ActualTransaction
	Payment           = models.Payment
	Totals            = models.Totals
	Direction         = models.Direction
	Totaler           = aggregate.Totaler
	PeriodType        = periods.Type
)

// Expand returns the dates rule falls on between rangeStart and rangeEnd,
// with the default occurrence ceiling.
func Expand(rule RecurrenceRule, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	return recurrence.NewExpander().Expand(rule, rangeStart, rangeEnd)
}

// ExpandBudget expands every entry and returns the occurrences ordered by
// date.
func ExpandBudget(entries []BudgetEntry, rangeStart, rangeEnd time.Time) ([]Occurrence, error) {
	return recurrence.NewExpander().ExpandAll(entries, rangeStart, rangeEnd)
}

// Periods returns count consecutive periods of the named type starting with
// the one containing year/month.
func Periods(periodType string, year int, month time.Month, count int) ([]Period, error) {
	t, err := periods.ParseType(periodType)
	if err != nil {
		return nil, err
	}
	return periods.Grid(t, periods.Anchor{Year: year, Month: month}, count), nil
}

// Project computes the cash position of each period. Budget totals come from
// the occurrences of entries and actual totals from the payments on
// transactions.
func Project(
	grid []Period,
	entries []BudgetEntry,
	accounts []CashAccount,
	transactions []ActualTransaction,
	today time.Time,
) ([]PeriodBalance, error) {
	if len(grid) == 0 {
		return []PeriodBalance{}, nil
	}
	occurrences, err := ExpandBudget(entries, grid[0].Start, grid[len(grid)-1].LastDay())
	if err != nil {
		return nil, err
	}
	totals := aggregate.NewGeneralTotals(occurrences, transactions)
	return projector.New().Project(grid, accounts, transactions, totals, today), nil
}

// ProjectWithTotals is Project with caller-supplied per-period totals.
func ProjectWithTotals(
	grid []Period,
	accounts []CashAccount,
	transactions []ActualTransaction,
	totals Totaler,
	today time.Time,
) []PeriodBalance {
	return projector.New().Project(grid, accounts, transactions, totals, today)
}
