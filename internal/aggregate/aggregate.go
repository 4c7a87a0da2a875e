// Package aggregate computes per-period budget and actual totals from expanded
// budget occurrences and recorded transactions.
package aggregate

import (
	"sort"

	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/models"

	"github.com/shopspring/decimal"
)

// Totaler returns the budgeted and actual totals of one direction in one
// period. Direction is interpreted on the revenue/expense axis.
type Totaler interface {
	Totals(period models.Period, direction models.Direction) models.Totals
}

// TotalerFunc adapts a function to the Totaler interface.
type TotalerFunc func(period models.Period, direction models.Direction) models.Totals

// Totals calls f(period, direction).
func (f TotalerFunc) Totals(period models.Period, direction models.Direction) models.Totals {
	return f(period, direction)
}

// GeneralTotals is the default Totaler.
//
// Budget is the sum of the occurrences of that direction dated in the period.
// Actual is the sum of the payments dated in the period on transactions of the
// matching direction: receivables count as revenue, payables as expense.
type GeneralTotals struct {
	occurrences  []models.Occurrence
	transactions []models.ActualTransaction
}

// NewGeneralTotals creates a GeneralTotals over copies of the given slices.
func NewGeneralTotals(occurrences []models.Occurrence, transactions []models.ActualTransaction) *GeneralTotals {
	return &GeneralTotals{
		occurrences:  append([]models.Occurrence(nil), occurrences...),
		transactions: append([]models.ActualTransaction(nil), transactions...),
	}
}

// Totals implements Totaler.
func (g *GeneralTotals) Totals(period models.Period, direction models.Direction) models.Totals {
	return g.totals(period, direction, func(string) bool { return true })
}

// ByCategory returns the totals of period and direction per category.
// Categories without any amount in the period are omitted.
func (g *GeneralTotals) ByCategory(period models.Period, direction models.Direction) map[string]models.Totals {
	out := make(map[string]models.Totals)
	for _, name := range g.CategoryNames() {
		category := name
		t := g.totals(period, direction, func(c string) bool { return c == category })
		if t.Budget.IsZero() && t.Actual.IsZero() {
			continue
		}
		out[category] = t
	}
	return out
}

// CategoryLine holds the totals of one category, direction and period.
type CategoryLine struct {
	Period    models.Period
	Category  string
	Direction models.Direction
	Totals    models.Totals
}

// Breakdown returns the category totals of every period in period order,
// revenue before expense and categories sorted by name. Empty categories are
// omitted.
func (g *GeneralTotals) Breakdown(periods []models.Period) []CategoryLine {
	names := g.CategoryNames()
	lines := []CategoryLine{}
	for _, period := range periods {
		for _, direction := range []models.Direction{models.DirectionRevenue, models.DirectionExpense} {
			byCategory := g.ByCategory(period, direction)
			for _, name := range names {
				t, ok := byCategory[name]
				if !ok {
					continue
				}
				lines = append(lines, CategoryLine{Period: period, Category: name, Direction: direction, Totals: t})
			}
		}
	}
	return lines
}

// CategoryNames returns every category seen in occurrences and transactions,
// sorted.
func (g *GeneralTotals) CategoryNames() []string {
	seen := make(map[string]struct{})
	for _, o := range g.occurrences {
		seen[categoryOf(o.Category)] = struct{}{}
	}
	for _, tx := range g.transactions {
		seen[categoryOf(tx.Category)] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *GeneralTotals) totals(period models.Period, direction models.Direction, match func(string) bool) models.Totals {
	flow := direction.Flow()
	budget := decimal.Zero
	actual := decimal.Zero

	for _, o := range g.occurrences {
		if o.Direction.Flow() != flow || !match(categoryOf(o.Category)) {
			continue
		}
		if period.Contains(dateutils.Normalize(o.Date)) {
			budget = budget.Add(o.Amount)
		}
	}

	for _, tx := range g.transactions {
		if tx.Direction.Flow() != flow || !match(categoryOf(tx.Category)) {
			continue
		}
		for _, p := range tx.Payments {
			if period.Contains(dateutils.Normalize(p.PaymentDate)) {
				actual = actual.Add(p.PaidAmount)
			}
		}
	}

	return models.Totals{Budget: budget, Actual: actual}
}

func categoryOf(c string) string {
	if c == "" {
		return models.CategoryUncategorized
	}
	return c
}
