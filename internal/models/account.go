package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashAccount contributes its initial balance to the starting cash position.
type CashAccount struct {
	ID                 string
	Name               string
	InitialBalance     decimal.Decimal
	InitialBalanceDate time.Time
	IsClosed           bool
}
