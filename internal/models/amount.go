package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var amountNoise = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"'", "",
	"CHF", "",
	"EUR", "",
	"USD", "",
	"$", "",
	"€", "",
)

// ParseAmount parses a decimal amount written with a dot or a comma as
// decimal separator, tolerating currency markers and apostrophe thousand
// separators.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := amountNoise.Replace(strings.TrimSpace(amountStr))
	if strings.Count(amount, ",") == 1 && !strings.Contains(amount, ".") {
		amount = strings.Replace(amount, ",", ".", 1)
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	return dec, nil
}
