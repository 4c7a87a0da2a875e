package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction tells whether an amount flows into or out of the cash position.
// Budget lines use revenue/expense, actual transactions receivable/payable.
type Direction string

const (
	DirectionRevenue    Direction = "revenue"
	DirectionExpense    Direction = "expense"
	DirectionReceivable Direction = "receivable"
	DirectionPayable    Direction = "payable"
)

var directionNames = map[string]Direction{
	"revenue":    DirectionRevenue,
	"income":     DirectionRevenue,
	"expense":    DirectionExpense,
	"receivable": DirectionReceivable,
	"payable":    DirectionPayable,
}

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	if d, ok := directionNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// IsInflow reports whether d adds to the cash position.
func (d Direction) IsInflow() bool {
	return d == DirectionRevenue || d == DirectionReceivable
}

// Flow maps d onto the revenue/expense axis used for period totals.
func (d Direction) Flow() Direction {
	if d.IsInflow() {
		return DirectionRevenue
	}
	return DirectionExpense
}

// Signed returns amount with the sign of its effect on the cash position.
func (d Direction) Signed(amount decimal.Decimal) decimal.Decimal {
	if d.IsInflow() {
		return amount
	}
	return amount.Neg()
}
