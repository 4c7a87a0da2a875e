// Package dateutils provides the calendar-date arithmetic shared by the
// recurrence expander, the period calculator and the projector.
//
// Every date handled by the core is a civil date: a time.Time at midnight UTC.
// Use Normalize on anything coming from outside before comparing or stepping.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutRFC3339   = time.RFC3339
	DateLayoutMonth     = "2006-01"
	DateLayoutWithMonth = "2-Jan-2006"
)

// CommonFormats is a list of standard formats to try when parsing dates
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutRFC3339,
	DateLayoutFull,
	DateLayoutEuropean,
	DateLayoutUS,
	DateLayoutWithMonth,
	"02/01/2006",
	"2006/01/02",
}

var spaces = regexp.MustCompile(`\s+`)

// ParseDate parses dateStr with the first matching format in CommonFormats
// and returns it as a normalized calendar date.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(spaces.ReplaceAllString(dateStr, " "))
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("unable to parse date: empty string")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return Normalize(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseMonth parses a "YYYY-MM" string and returns its year and month.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(DateLayoutMonth, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("parse month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// Normalize drops the time-of-day and location of t, keeping the calendar
// day t shows in its own location.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDate returns the calendar date y-m-d. Out-of-range values roll over the
// way time.Date does.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped returns the date months months after the month of base,
// on day, clamped to the last day of the target month when that month is
// shorter. base's own day is ignored so callers can keep an anchor day that
// survives short months.
func AddMonthsClamped(base time.Time, months, day int) time.Time {
	if day < 1 {
		day = 1
	}
	first := time.Date(base.Year(), base.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// MonthsBetween returns the number of calendar months from a's month to b's
// month, ignoring days. It is negative when b is earlier.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Normalize(a), Normalize(b)
	return int(b.Sub(a).Hours() / 24)
}

// MinDate returns the earlier of a and b.
func MinDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
