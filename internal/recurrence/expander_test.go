package recurrence

import (
	"errors"
	"testing"
	"time"

	"fjacquet/cash-forecast/internal/forecasterror"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestExpand_MonthlyRentFullYear(t *testing.T) {
	e := NewExpander()
	rule := models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 1), Indefinite: true}

	dates, err := e.Expand(rule, d(2024, 1, 1), d(2024, 12, 31))
	require.NoError(t, err)
	require.Len(t, dates, 12)
	for i, got := range dates {
		assert.Equal(t, d(2024, time.Month(i+1), 1), got)
	}
}

func TestExpand_LeapClamp(t *testing.T) {
	e := NewExpander()
	rule := models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 31)}

	dates, err := e.Expand(rule, d(2024, 1, 1), d(2024, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{d(2024, 1, 31), d(2024, 2, 29), d(2024, 3, 31)}, dates)
}

func TestExpand_ClampDoesNotShiftAnchor(t *testing.T) {
	e := NewExpander()
	rule := models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2023, 1, 31)}

	dates, err := e.Expand(rule, d(2023, 1, 1), d(2023, 6, 30))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		d(2023, 1, 31),
		d(2023, 2, 28),
		d(2023, 3, 31),
		d(2023, 4, 30),
		d(2023, 5, 31),
		d(2023, 6, 30),
	}, dates)
}

func TestExpand_Frequencies(t *testing.T) {
	e := NewExpander()

	tests := []struct {
		name     string
		rule     models.RecurrenceRule
		from, to time.Time
		expected []time.Time
	}{
		{
			name:     "daily",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyDaily, StartDate: d(2024, 2, 27)},
			from:     d(2024, 2, 28),
			to:       d(2024, 3, 2),
			expected: []time.Time{d(2024, 2, 28), d(2024, 2, 29), d(2024, 3, 1), d(2024, 3, 2)},
		},
		{
			name:     "weekly from earlier start",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyWeekly, StartDate: d(2024, 1, 3)},
			from:     d(2024, 1, 15),
			to:       d(2024, 2, 5),
			expected: []time.Time{d(2024, 1, 17), d(2024, 1, 24), d(2024, 1, 31)},
		},
		{
			name:     "bimonthly",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyBimonthly, StartDate: d(2024, 1, 15)},
			from:     d(2024, 1, 1),
			to:       d(2024, 8, 1),
			expected: []time.Time{d(2024, 1, 15), d(2024, 3, 15), d(2024, 5, 15), d(2024, 7, 15)},
		},
		{
			name:     "quarterly across year",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyQuarterly, StartDate: d(2023, 11, 30)},
			from:     d(2024, 1, 1),
			to:       d(2024, 12, 31),
			expected: []time.Time{d(2024, 2, 29), d(2024, 5, 30), d(2024, 8, 30), d(2024, 11, 30)},
		},
		{
			name:     "semiannual",
			rule:     models.RecurrenceRule{Frequency: models.FrequencySemiannual, StartDate: d(2022, 6, 30)},
			from:     d(2024, 1, 1),
			to:       d(2024, 12, 31),
			expected: []time.Time{d(2024, 6, 30), d(2024, 12, 30)},
		},
		{
			name:     "annual on leap day",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyAnnual, StartDate: d(2024, 2, 29)},
			from:     d(2024, 1, 1),
			to:       d(2028, 12, 31),
			expected: []time.Time{d(2024, 2, 29), d(2025, 2, 28), d(2026, 2, 28), d(2027, 2, 28), d(2028, 2, 29)},
		},
		{
			name:     "once in range",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyOnce, StartDate: d(2024, 5, 10)},
			from:     d(2024, 5, 1),
			to:       d(2024, 5, 31),
			expected: []time.Time{d(2024, 5, 10)},
		},
		{
			name:     "once before range",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyOnce, StartDate: d(2024, 4, 30)},
			from:     d(2024, 5, 1),
			to:       d(2024, 5, 31),
			expected: []time.Time{},
		},
		{
			name:     "irregular behaves as a fixed date",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyIrregular, StartDate: d(2024, 5, 1)},
			from:     d(2024, 5, 1),
			to:       d(2024, 5, 31),
			expected: []time.Time{d(2024, 5, 1)},
		},
		{
			name:     "end date stops generation",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 10), EndDate: d(2024, 3, 9)},
			from:     d(2024, 1, 1),
			to:       d(2024, 12, 31),
			expected: []time.Time{d(2024, 1, 10), d(2024, 2, 10)},
		},
		{
			name:     "end date is inclusive",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 10), EndDate: d(2024, 3, 10)},
			from:     d(2024, 1, 1),
			to:       d(2024, 12, 31),
			expected: []time.Time{d(2024, 1, 10), d(2024, 2, 10), d(2024, 3, 10)},
		},
		{
			name:     "indefinite ignores end date",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 10), EndDate: d(2024, 1, 31), Indefinite: true},
			from:     d(2024, 1, 1),
			to:       d(2024, 3, 31),
			expected: []time.Time{d(2024, 1, 10), d(2024, 2, 10), d(2024, 3, 10)},
		},
		{
			name:     "start after range end",
			rule:     models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2025, 1, 1)},
			from:     d(2024, 1, 1),
			to:       d(2024, 12, 31),
			expected: []time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := e.Expand(tt.rule, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dates)
		})
	}
}

func TestExpand_FastForwardEquivalence(t *testing.T) {
	e := NewExpander()
	frequencies := []models.Frequency{
		models.FrequencyDaily,
		models.FrequencyWeekly,
		models.FrequencyMonthly,
		models.FrequencyBimonthly,
		models.FrequencyQuarterly,
		models.FrequencySemiannual,
		models.FrequencyAnnual,
	}
	starts := []time.Time{d(2020, 1, 31), d(2020, 2, 29), d(2021, 8, 15), d(2022, 12, 1)}
	windows := [][2]time.Time{
		{d(2023, 2, 1), d(2023, 5, 31)},
		{d(2023, 2, 28), d(2024, 3, 1)},
		{d(2024, 2, 29), d(2024, 12, 31)},
	}

	for _, f := range frequencies {
		for _, start := range starts {
			rule := models.RecurrenceRule{Frequency: f, StartDate: start}
			for _, w := range windows {
				full, err := e.Expand(rule, start, w[1])
				require.NoError(t, err)

				var want []time.Time
				for _, date := range full {
					if !date.Before(w[0]) {
						want = append(want, date)
					}
				}

				got, err := e.Expand(rule, w[0], w[1])
				require.NoError(t, err)
				if len(want) == 0 {
					assert.Empty(t, got, "%s from %s over %v", f, start, w)
					continue
				}
				assert.Equal(t, want, got, "%s from %s over %v", f, start, w)
			}
		}
	}
}

func TestExpand_FastForwardBoundsWork(t *testing.T) {
	// A daily rule started a century ago must not count skipped days
	// against the ceiling.
	e := NewExpander(WithMaxOccurrences(40))
	rule := models.RecurrenceRule{Frequency: models.FrequencyDaily, StartDate: d(1924, 1, 1)}

	dates, err := e.Expand(rule, d(2024, 1, 1), d(2024, 1, 31))
	require.NoError(t, err)
	assert.Len(t, dates, 31)
	assert.Equal(t, d(2024, 1, 1), dates[0])
}

func TestExpand_EmptyRangeLaw(t *testing.T) {
	e := NewExpander()
	rule := models.RecurrenceRule{Frequency: models.FrequencyDaily, StartDate: d(2024, 1, 1)}

	_, err := e.Expand(rule, d(2024, 2, 1), d(2024, 1, 31))
	require.Error(t, err)
	assert.True(t, errors.Is(err, forecasterror.ErrInvalidRange))

	var rangeErr *forecasterror.InvalidRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, d(2024, 2, 1), rangeErr.Start)

	dates, err := e.Expand(rule, d(2024, 1, 15), d(2024, 1, 15))
	require.NoError(t, err)
	assert.NotNil(t, dates)
	assert.Empty(t, dates)
}

func TestExpand_OnceOnRangeEndIsIncluded(t *testing.T) {
	e := NewExpander()
	rule := models.RecurrenceRule{Frequency: models.FrequencyOnce, StartDate: d(2024, 3, 31)}

	dates, err := e.Expand(rule, d(2024, 3, 1), d(2024, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{d(2024, 3, 31)}, dates)
}

func TestExpand_IgnoresTimeOfDay(t *testing.T) {
	e := NewExpander()
	zone := time.FixedZone("CET", 3600)
	rule := models.RecurrenceRule{
		Frequency: models.FrequencyMonthly,
		StartDate: time.Date(2024, 1, 31, 23, 30, 0, 0, zone),
	}

	dates, err := e.Expand(rule, time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC), d(2024, 2, 29))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{d(2024, 1, 31), d(2024, 2, 29)}, dates)
}

func TestExpand_Overflow(t *testing.T) {
	e := NewExpander(WithMaxOccurrences(10))
	rule := models.RecurrenceRule{Frequency: models.FrequencyDaily, StartDate: d(2024, 1, 1)}

	_, err := e.Expand(rule, d(2024, 1, 1), d(2024, 1, 10))
	require.NoError(t, err)

	_, err = e.Expand(rule, d(2024, 1, 1), d(2024, 1, 11))
	require.Error(t, err)
	assert.True(t, errors.Is(err, forecasterror.ErrRecurrenceOverflow))

	var overflow *forecasterror.RecurrenceOverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, 10, overflow.Limit)
	assert.Equal(t, "daily", overflow.Frequency)
}

func TestExpand_UnknownFrequency(t *testing.T) {
	e := NewExpander()
	rule := models.RecurrenceRule{Frequency: models.Frequency("fortnightly"), StartDate: d(2024, 1, 1)}

	_, err := e.Expand(rule, d(2024, 1, 1), d(2024, 12, 31))
	require.Error(t, err)
	assert.True(t, errors.Is(err, forecasterror.ErrRecurrenceOverflow))
	assert.Contains(t, err.Error(), "no advancing step")
}

func TestNewExpander_Defaults(t *testing.T) {
	assert.Equal(t, DefaultMaxOccurrences, NewExpander().MaxOccurrences())
	assert.Equal(t, DefaultMaxOccurrences, NewExpander(WithMaxOccurrences(0)).MaxOccurrences())
	assert.Equal(t, 5, NewExpander(WithMaxOccurrences(5)).MaxOccurrences())
}

func TestExpandEntry(t *testing.T) {
	e := NewExpander()
	entry := models.BudgetEntry{
		ID:        "rent",
		Label:     "Rent",
		Amount:    decimal.NewFromInt(1800),
		Direction: models.DirectionExpense,
		Rule:      models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 1)},
	}

	occ, err := e.ExpandEntry(entry, d(2024, 1, 1), d(2024, 2, 29))
	require.NoError(t, err)
	require.Len(t, occ, 2)
	assert.Equal(t, "rent", occ[0].EntryID)
	assert.Equal(t, models.CategoryUncategorized, occ[0].Category)
	assert.Equal(t, d(2024, 2, 1), occ[1].Date)
	assert.True(t, occ[1].SignedAmount().Equal(decimal.NewFromInt(-1800)))
}

func TestExpandAll(t *testing.T) {
	logger := logging.NewMockLogger()
	e := NewExpander(WithLogger(logger))
	entries := []models.BudgetEntry{
		{
			ID:        "salary",
			Amount:    decimal.NewFromInt(5000),
			Direction: models.DirectionRevenue,
			Rule:      models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2023, 6, 25)},
		},
		{
			ID:        "insurance",
			Amount:    decimal.NewFromInt(300),
			Direction: models.DirectionExpense,
			Rule:      models.RecurrenceRule{Frequency: models.FrequencyQuarterly, StartDate: d(2024, 1, 25)},
		},
		{
			ID:        "bonus",
			Amount:    decimal.NewFromInt(2000),
			Direction: models.DirectionRevenue,
			Rule:      models.RecurrenceRule{Frequency: models.FrequencyOnce, StartDate: d(2024, 2, 10)},
		},
	}

	occ, err := e.ExpandAll(entries, d(2024, 1, 1), d(2024, 2, 29))
	require.NoError(t, err)

	var got []string
	for _, o := range occ {
		got = append(got, o.Date.Format("01-02")+" "+o.EntryID)
	}
	assert.Equal(t, []string{
		"01-25 insurance",
		"01-25 salary",
		"02-10 bonus",
		"02-25 salary",
	}, got)

	assert.True(t, logger.HasEntry("DEBUG", "Fast-forwarded recurrence to range start"))
	entryID, ok := logger.FieldValue("Fast-forwarded recurrence to range start", logging.FieldEntryID)
	require.True(t, ok)
	assert.Equal(t, "salary", entryID)
}

func TestExpandAll_AbortsOnFirstError(t *testing.T) {
	e := NewExpander()
	entries := []models.BudgetEntry{
		{ID: "ok", Rule: models.RecurrenceRule{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 1)}},
		{ID: "broken", Rule: models.RecurrenceRule{Frequency: models.Frequency("bogus"), StartDate: d(2024, 1, 1)}},
	}

	occ, err := e.ExpandAll(entries, d(2024, 1, 1), d(2024, 12, 31))
	require.Error(t, err)
	assert.Nil(t, occ)
	assert.Contains(t, err.Error(), `"broken"`)

	var overflow *forecasterror.RecurrenceOverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, "broken", overflow.EntryID)
}
