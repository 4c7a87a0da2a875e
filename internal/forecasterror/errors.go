// Package forecasterror defines the typed errors returned by the forecasting
// core and the data-source mapping layer.
package forecasterror

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRecurrenceOverflow matches any *RecurrenceOverflowError.
	ErrRecurrenceOverflow = errors.New("recurrence overflow")
	// ErrInvalidRange matches any *InvalidRangeError.
	ErrInvalidRange = errors.New("invalid range")
)

// RecurrenceOverflowError is returned when expanding a rule would exceed the
// occurrence ceiling, or when the rule's step cannot advance at all.
// It signals malformed rule data and is never worth retrying.
type RecurrenceOverflowError struct {
	EntryID   string
	Frequency string
	Limit     int
	Reason    string
}

func (e *RecurrenceOverflowError) Error() string {
	subject := e.Frequency
	if e.EntryID != "" {
		subject = fmt.Sprintf("%s (entry %s)", e.Frequency, e.EntryID)
	}
	if e.Reason != "" {
		return fmt.Sprintf("recurrence overflow for %s: %s", subject, e.Reason)
	}
	return fmt.Sprintf("recurrence overflow for %s: more than %d occurrences", subject, e.Limit)
}

// Is reports whether target is ErrRecurrenceOverflow.
func (e *RecurrenceOverflowError) Is(target error) bool {
	return target == ErrRecurrenceOverflow
}

// InvalidRangeError is returned when a range ends before it starts.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s is before start %s",
		e.End.Format("2006-01-02"), e.Start.Format("2006-01-02"))
}

// Is reports whether target is ErrInvalidRange.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// ParseError represents a field of an external record that could not be
// mapped into a domain value.
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a record that parsed but breaks a domain invariant.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Source, e.Reason)
}
