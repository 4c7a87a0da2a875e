// Package recurrence expands budget-entry recurrence rules into concrete
// calendar occurrences inside a bounding date range.
//
// The bounding range is closed: an occurrence on rangeStart or on rangeEnd is
// included. A range whose endpoints are the same day has no width and yields
// nothing. Expansion is a pure function of its inputs, and an Expander is safe
// for concurrent use.
package recurrence

import (
	"fmt"
	"sort"
	"time"

	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/forecasterror"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/models"
)

// DefaultMaxOccurrences bounds the work done for a single rule.
const DefaultMaxOccurrences = 10000

// Expander materializes recurrence rules into occurrence dates.
type Expander struct {
	maxOccurrences int
	logger         logging.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithMaxOccurrences sets the per-rule iteration ceiling. Values below 1 keep
// the default.
func WithMaxOccurrences(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.maxOccurrences = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logging.Logger) Option {
	return func(e *Expander) {
		e.logger = logger
	}
}

// NewExpander creates an Expander.
func NewExpander(opts ...Option) *Expander {
	e := &Expander{maxOccurrences: DefaultMaxOccurrences}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger)
	return e
}

// MaxOccurrences returns the configured iteration ceiling.
func (e *Expander) MaxOccurrences() int {
	return e.maxOccurrences
}

// Expand returns the ordered occurrence dates of rule inside
// [rangeStart, rangeEnd].
//
// It returns an *forecasterror.InvalidRangeError when rangeEnd is before
// rangeStart and an *forecasterror.RecurrenceOverflowError when the rule would
// produce more than the configured ceiling or cannot advance.
func (e *Expander) Expand(rule models.RecurrenceRule, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	return e.expand("", rule, rangeStart, rangeEnd)
}

// ExpandEntry expands the rule of entry and returns one Occurrence per date.
func (e *Expander) ExpandEntry(entry models.BudgetEntry, rangeStart, rangeEnd time.Time) ([]models.Occurrence, error) {
	dates, err := e.expand(entry.ID, entry.Rule, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	category := entry.Category
	if category == "" {
		category = models.CategoryUncategorized
	}

	occurrences := make([]models.Occurrence, 0, len(dates))
	for _, d := range dates {
		occurrences = append(occurrences, models.Occurrence{
			EntryID:   entry.ID,
			Label:     entry.Label,
			Category:  category,
			Date:      d,
			Amount:    entry.Amount,
			Direction: entry.Direction,
		})
	}
	return occurrences, nil
}

// ExpandAll expands every entry and returns all occurrences ordered by date,
// then by entry ID. The first failing entry aborts the expansion.
func (e *Expander) ExpandAll(entries []models.BudgetEntry, rangeStart, rangeEnd time.Time) ([]models.Occurrence, error) {
	var all []models.Occurrence
	for _, entry := range entries {
		occurrences, err := e.ExpandEntry(entry, rangeStart, rangeEnd)
		if err != nil {
			return nil, fmt.Errorf("expand entry %q: %w", entry.ID, err)
		}
		all = append(all, occurrences...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].EntryID < all[j].EntryID
	})

	e.logger.Debug("Expanded budget entries",
		logging.F(logging.FieldCount, len(all)),
		logging.F("entries", len(entries)),
		logging.F(logging.FieldRangeStart, dateutils.ToISODate(rangeStart)),
		logging.F(logging.FieldRangeEnd, dateutils.ToISODate(rangeEnd)))

	return all, nil
}

func (e *Expander) expand(entryID string, rule models.RecurrenceRule, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	rangeStart = dateutils.Normalize(rangeStart)
	rangeEnd = dateutils.Normalize(rangeEnd)
	if rangeEnd.Before(rangeStart) {
		return nil, &forecasterror.InvalidRangeError{Start: rangeStart, End: rangeEnd}
	}

	dates := []time.Time{}
	if rangeStart.Equal(rangeEnd) {
		return dates, nil
	}

	first := dateutils.Normalize(rule.StartDate)
	last := rangeEnd
	if rule.HasEnd() {
		last = dateutils.MinDate(last, dateutils.Normalize(rule.EndDate))
	}
	if first.After(last) {
		return dates, nil
	}

	g := guard{entryID: entryID, frequency: rule.Frequency, limit: e.maxOccurrences}

	switch {
	case rule.Frequency.IsSingle():
		if !first.Before(rangeStart) {
			dates = append(dates, first)
		}
		return dates, nil

	case rule.Frequency.DayStep() > 0:
		step := rule.Frequency.DayStep()
		k := 0
		if first.Before(rangeStart) {
			k = ceilDiv(dateutils.DaysBetween(first, rangeStart), step)
		}
		e.logSkip(entryID, rule.Frequency, k)
		for d := first.AddDate(0, 0, k*step); !d.After(last); d = d.AddDate(0, 0, step) {
			if err := g.tick(); err != nil {
				return nil, err
			}
			dates = append(dates, d)
		}
		return dates, nil

	case rule.Frequency.MonthStep() > 0:
		step := rule.Frequency.MonthStep()
		anchorDay := first.Day()
		k := 0
		if first.Before(rangeStart) {
			// Occurrence k lands in month first+k*step, so this k is the last
			// one whose month does not pass rangeStart's month.
			k = dateutils.MonthsBetween(first, rangeStart) / step
		}
		e.logSkip(entryID, rule.Frequency, k)
		for ; ; k++ {
			d := dateutils.AddMonthsClamped(first, k*step, anchorDay)
			if d.After(last) {
				break
			}
			if err := g.tick(); err != nil {
				return nil, err
			}
			if !d.Before(rangeStart) {
				dates = append(dates, d)
			}
		}
		return dates, nil
	}

	return nil, &forecasterror.RecurrenceOverflowError{
		EntryID:   entryID,
		Frequency: string(rule.Frequency),
		Limit:     e.maxOccurrences,
		Reason:    "frequency has no advancing step",
	}
}

func (e *Expander) logSkip(entryID string, frequency models.Frequency, skipped int) {
	if skipped == 0 {
		return
	}
	e.logger.Debug("Fast-forwarded recurrence to range start",
		logging.F(logging.FieldEntryID, entryID),
		logging.F(logging.FieldFrequency, string(frequency)),
		logging.F(logging.FieldSkipped, skipped))
}

// guard counts loop iterations for one rule and fails past the ceiling.
type guard struct {
	entryID   string
	frequency models.Frequency
	limit     int
	count     int
}

func (g *guard) tick() error {
	g.count++
	if g.count > g.limit {
		return &forecasterror.RecurrenceOverflowError{
			EntryID:   g.entryID,
			Frequency: string(g.frequency),
			Limit:     g.limit,
		}
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
