// Package models provides the domain types shared by the forecasting core:
// recurrence rules, budget entries, periods, cash accounts and actual
// transactions.
package models

import (
	"fmt"
	"strings"
)

// Frequency is the recurrence kind of a budget entry.
type Frequency string

const (
	FrequencyOnce       Frequency = "once"
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyBimonthly  Frequency = "bimonthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyAnnual     Frequency = "annual"
	FrequencyIrregular  Frequency = "irregular"
)

// frequencyIDs lists frequencies in the order of the REST frequency_id codes,
// starting at 1.
var frequencyIDs = []Frequency{
	FrequencyOnce,
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyBimonthly,
	FrequencyQuarterly,
	FrequencySemiannual,
	FrequencyAnnual,
	FrequencyIrregular,
}

var frequencyAliases = map[string]Frequency{
	"one-off":    FrequencyOnce,
	"punctual":   FrequencyOnce,
	"bi-monthly": FrequencyBimonthly,
	"bimestrial": FrequencyBimonthly,
	"semestrial": FrequencySemiannual,
	"yearly":     FrequencyAnnual,
}

// ParseFrequency parses a frequency name, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, f := range frequencyIDs {
		if string(f) == name {
			return f, nil
		}
	}
	if f, ok := frequencyAliases[name]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// FrequencyFromID maps a REST frequency_id code to its Frequency.
func FrequencyFromID(id int) (Frequency, error) {
	if id < 1 || id > len(frequencyIDs) {
		return "", fmt.Errorf("unknown frequency id %d", id)
	}
	return frequencyIDs[id-1], nil
}

// IsSingle reports whether f produces at most one occurrence.
func (f Frequency) IsSingle() bool {
	return f == FrequencyOnce || f == FrequencyIrregular
}

// MonthStep returns the number of months between occurrences for month-based
// frequencies, 0 otherwise.
func (f Frequency) MonthStep() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyBimonthly:
		return 2
	case FrequencyQuarterly:
		return 3
	case FrequencySemiannual:
		return 6
	case FrequencyAnnual:
		return 12
	}
	return 0
}

// DayStep returns the number of days between occurrences for day-based
// frequencies, 0 otherwise.
func (f Frequency) DayStep() int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return 7
	}
	return 0
}
