// Package periods computes reporting-period boundaries, labels and
// transitions for month, bimester, quarter, semester and year periods.
//
// Every function is a pure function of its inputs. Dates are calendar dates at
// midnight UTC and every period is half-open: [Start, End).
package periods

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/models"
)

// Type is the length of a reporting period.
type Type string

const (
	Month    Type = "month"
	Bimester Type = "bimester"
	Quarter  Type = "quarter"
	Semester Type = "semester"
	Year     Type = "year"
)

var typeAliases = map[string]Type{
	"month":      Month,
	"monthly":    Month,
	"bimester":   Bimester,
	"bimonthly":  Bimester,
	"quarter":    Quarter,
	"quarterly":  Quarter,
	"semester":   Semester,
	"semiannual": Semester,
	"year":       Year,
	"annual":     Year,
	"yearly":     Year,
}

// ParseType parses a period type name, accepting the adjective forms too.
func ParseType(s string) (Type, error) {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown period type: %q", s)
}

// MonthsPerPeriod returns the number of months one period spans, or 0 for an
// unknown type.
func (t Type) MonthsPerPeriod() int {
	switch t {
	case Month:
		return 1
	case Bimester:
		return 2
	case Quarter:
		return 3
	case Semester:
		return 6
	case Year:
		return 12
	default:
		return 0
	}
}

// Anchor is a year/month position in the calendar.
type Anchor struct {
	Year  int
	Month time.Month
}

// AnchorOf returns the anchor of the month containing d.
func AnchorOf(d time.Time) Anchor {
	return Anchor{Year: d.Year(), Month: d.Month()}
}

// ParseAnchor parses a "YYYY-MM" anchor.
func ParseAnchor(s string) (Anchor, error) {
	year, month, err := dateutils.ParseMonth(s)
	if err != nil {
		return Anchor{}, err
	}
	return Anchor{Year: year, Month: month}, nil
}

// Normalize folds an out-of-range month into the year, so that month 13 of
// 2024 becomes January 2025.
func (a Anchor) Normalize() Anchor {
	return AnchorOf(dateutils.NewDate(a.Year, a.Month, 1))
}

// Quarter returns the 1-based quarter of the anchor month.
func (a Anchor) Quarter() int { return a.index(3) }

// Semester returns the 1-based semester of the anchor month.
func (a Anchor) Semester() int { return a.index(6) }

// Bimester returns the 1-based bimester of the anchor month.
func (a Anchor) Bimester() int { return a.index(2) }

func (a Anchor) index(size int) int {
	return (int(a.Normalize().Month)-1)/size + 1
}

func (a Anchor) String() string {
	return fmt.Sprintf("%04d-%02d", a.Year, int(a.Month))
}

// blockStart returns the anchor of the first month of the period of type t
// containing a.
func blockStart(t Type, a Anchor) Anchor {
	a = a.Normalize()
	size := t.MonthsPerPeriod()
	if size == 0 {
		size = 1
	}
	first := (int(a.Month)-1)/size*size + 1
	return Anchor{Year: a.Year, Month: time.Month(first)}
}

// Bounds returns the period of type t containing the anchor month. An unknown
// type is treated as a month.
func Bounds(t Type, a Anchor) models.Period {
	start := blockStart(t, a)
	size := t.MonthsPerPeriod()
	if size == 0 {
		size = 1
	}
	from := dateutils.NewDate(start.Year, start.Month, 1)
	return models.Period{
		Start: from,
		End:   from.AddDate(0, size, 0),
		Label: Label(t, start),
	}
}

// Label returns the display label of the period of type t containing the
// anchor month: "January 2024", "B1 2024", "Q1 2024", "S1 2024" or "2024".
func Label(t Type, a Anchor) string {
	a = a.Normalize()
	switch t {
	case Bimester:
		return fmt.Sprintf("B%d %d", a.Bimester(), a.Year)
	case Quarter:
		return fmt.Sprintf("Q%d %d", a.Quarter(), a.Year)
	case Semester:
		return fmt.Sprintf("S%d %d", a.Semester(), a.Year)
	case Year:
		return fmt.Sprintf("%d", a.Year)
	default:
		return fmt.Sprintf("%s %d", a.Month, a.Year)
	}
}

// Shift moves n periods of type t from the period containing a. The returned
// anchor is the first month of the target period.
func Shift(t Type, a Anchor, n int) Anchor {
	start := blockStart(t, a)
	size := t.MonthsPerPeriod()
	if size == 0 {
		size = 1
	}
	return AnchorOf(dateutils.NewDate(start.Year, start.Month+time.Month(n*size), 1))
}

// Next returns the anchor of the period following the one containing a.
func Next(t Type, a Anchor) Anchor {
	return Shift(t, a, 1)
}

// Previous returns the anchor of the period preceding the one containing a.
func Previous(t Type, a Anchor) Anchor {
	return Shift(t, a, -1)
}

// Grid returns count consecutive periods of type t, starting with the one
// containing a.
func Grid(t Type, a Anchor, count int) []models.Period {
	if count <= 0 {
		return []models.Period{}
	}
	out := make([]models.Period, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Bounds(t, Shift(t, a, i)))
	}
	return out
}

// Covering returns the consecutive periods of type t needed to cover every
// day of [from, to]. It returns nothing when to is before from.
func Covering(t Type, from, to time.Time) []models.Period {
	from, to = dateutils.Normalize(from), dateutils.Normalize(to)
	if to.Before(from) {
		return []models.Period{}
	}
	first := AnchorOf(from)
	var out []models.Period
	for a := first; ; a = Next(t, a) {
		p := Bounds(t, a)
		if p.Start.After(to) {
			break
		}
		out = append(out, p)
	}
	return out
}

// Weeks returns count consecutive ISO weeks, starting with the week that
// contains start. Each week begins on a Monday and is labelled "W<week> <year>"
// with the ISO week-numbering year.
func Weeks(start time.Time, count int) []models.Period {
	if count <= 0 {
		return []models.Period{}
	}
	start = dateutils.Normalize(start)
	offset := (int(start.Weekday()) + 6) % 7
	monday := start.AddDate(0, 0, -offset)

	out := make([]models.Period, 0, count)
	for i := 0; i < count; i++ {
		from := monday.AddDate(0, 0, 7*i)
		year, week := from.ISOWeek()
		out = append(out, models.Period{
			Start: from,
			End:   from.AddDate(0, 0, 7),
			Label: fmt.Sprintf("W%02d %d", week, year),
		})
	}
	return out
}
