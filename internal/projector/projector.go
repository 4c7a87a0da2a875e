// Package projector computes period-by-period cash positions.
//
// Periods up to and including the one containing today close with actual
// totals, later periods with planned totals. Overdue remainders from the past
// are booked once at that boundary.
package projector

import (
	"sort"
	"time"

	"fjacquet/cash-forecast/internal/aggregate"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/models"

	"github.com/shopspring/decimal"
)

// Projector computes opening and closing balances per period.
type Projector struct {
	tolerance decimal.Decimal
	logger    logging.Logger
}

// Option configures a Projector.
type Option func(*Projector)

// WithTolerance sets the amount under which a remainder counts as zero.
// Negative values are ignored.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(p *Projector) {
		if !tolerance.IsNegative() {
			p.tolerance = tolerance
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logging.Logger) Option {
	return func(p *Projector) {
		p.logger = logger
	}
}

// New creates a Projector.
func New(opts ...Option) *Projector {
	p := &Projector{tolerance: decimal.RequireFromString(models.DefaultRemainderTolerance)}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNop(p.logger)
	return p
}

// Tolerance returns the configured remainder tolerance.
func (p *Projector) Tolerance() decimal.Decimal {
	return p.tolerance
}

// Project returns one balance per period, in input order. Periods must be
// sorted and must not overlap.
//
// An empty period list or a zero today yields an empty result. Missing
// accounts, transactions or totals count as zero.
func (p *Projector) Project(
	periods []models.Period,
	accounts []models.CashAccount,
	transactions []models.ActualTransaction,
	totals aggregate.Totaler,
	today time.Time,
) []models.PeriodBalance {
	balances := []models.PeriodBalance{}
	if len(periods) == 0 || today.IsZero() {
		return balances
	}
	today = dateutils.Normalize(today)
	if totals == nil {
		totals = aggregate.TotalerFunc(func(models.Period, models.Direction) models.Totals {
			return models.Totals{Budget: decimal.Zero, Actual: decimal.Zero}
		})
	}

	running := StartingBalance(accounts, transactions, periods[0].Start)
	todayIndex := TodayIndex(periods, today)
	hasFuture := todayIndex < len(periods)-1

	carry := decimal.Zero
	if hasFuture {
		carry = p.OverdueCarryForward(transactions, today)
	}

	p.logger.Debug("Projecting cash position",
		logging.F(logging.FieldCount, len(periods)),
		logging.F(logging.FieldTodayIndex, todayIndex),
		logging.F(logging.FieldAmount, carry.String()))

	if todayIndex == -1 && hasFuture {
		running = running.Add(carry)
	}

	for i, period := range periods {
		revenue := totals.Totals(period, models.DirectionRevenue)
		expense := totals.Totals(period, models.DirectionExpense)

		b := models.PeriodBalance{
			Period:       period,
			Opening:      running,
			CarryForward: decimal.Zero,
			Projected:    i > todayIndex,
		}
		if b.Projected {
			b.Inflow, b.Outflow = revenue.Budget, expense.Budget
		} else {
			b.Inflow, b.Outflow = revenue.Actual, expense.Actual
		}
		if i == todayIndex && hasFuture {
			b.CarryForward = carry
		}
		b.Closing = b.Opening.Add(b.Inflow).Sub(b.Outflow).Add(b.CarryForward)
		p.logger.Debug("Period closed",
			logging.F(logging.FieldPeriod, period.Label),
			logging.F(logging.FieldAmount, b.Closing.String()))

		running = b.Closing
		balances = append(balances, b)
	}

	return balances
}

// StartingBalance returns the sum of the accounts' initial balances plus the
// signed effect of every payment dated strictly before before.
func StartingBalance(accounts []models.CashAccount, transactions []models.ActualTransaction, before time.Time) decimal.Decimal {
	before = dateutils.Normalize(before)
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.InitialBalance)
	}
	for _, tx := range transactions {
		for _, pay := range tx.Payments {
			if dateutils.Normalize(pay.PaymentDate).Before(before) {
				total = total.Add(tx.Direction.Signed(pay.PaidAmount))
			}
		}
	}
	return total
}

// TodayIndex returns the index of the last period starting on or before
// today. It is -1 when today precedes every period; a today past the last
// period clamps to the last index and a today inside a gap between periods
// resolves to the period before the gap.
func TodayIndex(periods []models.Period, today time.Time) int {
	today = dateutils.Normalize(today)
	index := -1
	for i, period := range periods {
		if today.Before(period.Start) {
			break
		}
		index = i
	}
	return index
}

// OverdueCarryForward returns the signed sum of the remainders of all
// transactions overdue at today.
func (p *Projector) OverdueCarryForward(transactions []models.ActualTransaction, today time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range p.Overdue(transactions, today) {
		total = total.Add(tx.Direction.Signed(tx.Remainder()))
	}
	return total
}

// Overdue returns the transactions overdue at today, ordered by due date and
// then by ID.
func (p *Projector) Overdue(transactions []models.ActualTransaction, today time.Time) []models.ActualTransaction {
	today = dateutils.Normalize(today)
	var overdue []models.ActualTransaction
	for _, tx := range transactions {
		tx.Date = dateutils.Normalize(tx.Date)
		if tx.IsOverdue(today, p.tolerance) {
			overdue = append(overdue, tx)
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		if !overdue[i].Date.Equal(overdue[j].Date) {
			return overdue[i].Date.Before(overdue[j].Date)
		}
		return overdue[i].ID < overdue[j].ID
	})
	return overdue
}

// FilterOpenAccounts returns the accounts that are not closed.
func FilterOpenAccounts(accounts []models.CashAccount) []models.CashAccount {
	open := make([]models.CashAccount, 0, len(accounts))
	for _, a := range accounts {
		if !a.IsClosed {
			open = append(open, a)
		}
	}
	return open
}
