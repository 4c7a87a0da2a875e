package dateutils

import "time"

// Clock provides "today" as seen from a fixed UTC offset.
type Clock struct {
	// Offset is added to the current UTC instant before taking its calendar day.
	Offset time.Duration
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

// NewClock returns a Clock shifted by offsetMinutes from UTC.
func NewClock(offsetMinutes int) Clock {
	return Clock{Offset: time.Duration(offsetMinutes) * time.Minute}
}

// Today returns the current calendar date at the clock's offset.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Normalize(now().UTC().Add(c.Offset))
}
