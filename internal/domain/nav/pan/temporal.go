package pan

import (
	"fmt"
	"time"
)

// Temporal is a canonical time-range filter.
type Temporal struct {
	start        time.Time
	end          time.Time
	relative     bool
	durationDays int
}

// NewTemporal canonicalizes a time range. Start must not be after end.
func NewTemporal(start, end time.Time) (Temporal, error) {
	if start.IsZero() || end.IsZero() {
		return Temporal{}, fmt.Errorf("temporal filter needs both start and end")
	}
	if start.After(end) {
		return Temporal{}, fmt.Errorf("temporal start %s is after end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	days := int(end.Sub(start).Hours() / 24)
	return Temporal{start: start, end: end, durationDays: days}, nil
}

// NewRelativeTemporal canonicalizes a "last N" range anchored at now.
func NewRelativeTemporal(d time.Duration, now time.Time) (Temporal, error) {
	if d <= 0 {
		return Temporal{}, fmt.Errorf("relative temporal duration must be positive")
	}
	t, err := NewTemporal(now.Add(-d), now)
	if err != nil {
		return Temporal{}, err
	}
	t.relative = true
	return t, nil
}

// Start returns the range start.
func (t Temporal) Start() time.Time { return t.start }

// End returns the range end.
func (t Temporal) End() time.Time { return t.end }

// Relative reports whether the range was anchored to "now".
func (t Temporal) Relative() bool { return t.relative }

// DurationDays returns the whole-day length of the range.
func (t Temporal) DurationDays() int { return t.durationDays }
