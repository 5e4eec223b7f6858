package panfilter

import (
	"fmt"
	"time"

	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// TemporalStrategy is the closed set of time-range strategies.
type TemporalStrategy int

// Temporal strategies.
const (
	// TemporalExact matches the range as given.
	TemporalExact TemporalStrategy = iota
	// TemporalGrace widens both ends by the configured grace period.
	TemporalGrace
	// TemporalRelative matches a range anchored to "now".
	TemporalRelative
	// TemporalPeriodic splits a long range into yearly buckets.
	TemporalPeriodic
)

func (s TemporalStrategy) String() string {
	switch s {
	case TemporalExact:
		return "exact"
	case TemporalGrace:
		return "grace"
	case TemporalRelative:
		return "relative"
	case TemporalPeriodic:
		return "periodic"
	}
	panic(fmt.Sprintf("panfilter: unknown temporal strategy %d", int(s)))
}

// selectTemporalStrategy picks a strategy from the range shape: relative
// ranges stay relative, multi-year ranges are bucketed, otherwise the
// grace expansion applies when configured.
func (f *Filterer) selectTemporalStrategy(t pan.Temporal) TemporalStrategy {
	if t.Relative() {
		return TemporalRelative
	}
	if t.DurationDays() > f.cfg.PeriodicThresholdDays {
		return TemporalPeriodic
	}
	if f.cfg.GraceDays > 0 {
		return TemporalGrace
	}
	return TemporalExact
}

func (f *Filterer) applyTemporal(t pan.Temporal) Result {
	strategy := f.selectTemporalStrategy(t)

	var fragment navquery.Fragment

	switch strategy {
	case TemporalExact, TemporalRelative:
		fragment = rangeFragment(t.Start(), t.End())

	case TemporalGrace:
		grace := time.Duration(f.cfg.GraceDays) * 24 * time.Hour
		fragment = rangeFragment(t.Start().Add(-grace), t.End().Add(grace))

	case TemporalPeriodic:
		fragment = navquery.Or{Parts: yearlyBuckets(t.Start(), t.End())}

	default:
		panic(fmt.Sprintf("panfilter: unknown temporal strategy %d", int(strategy)))
	}

	// Longer ranges retain more of the corpus.
	years := float64(t.DurationDays()) / 365.0
	selectivity := years * f.cfg.SelectivityPerYear
	if selectivity < 0.01 {
		selectivity = 0.01
	}

	return Result{
		Dimension:    pan.DimTemporal,
		StrategyUsed: strategy.String(),
		Fragment:     fragment,
		Selectivity:  clampSelectivity(selectivity),
	}
}

func rangeFragment(start, end time.Time) navquery.Fragment {
	return navquery.Bounded(FieldTimestamp, float64(start.Unix()), float64(end.Unix()))
}

// yearlyBuckets splits [start, end] into calendar-year sub-ranges so the
// executor can satisfy each bucket from its yearly partition.
func yearlyBuckets(start, end time.Time) []navquery.Fragment {
	var parts []navquery.Fragment
	cursor := start
	for cursor.Before(end) {
		yearEnd := time.Date(cursor.Year()+1, 1, 1, 0, 0, 0, 0, cursor.Location())
		bucketEnd := yearEnd
		if bucketEnd.After(end) {
			bucketEnd = end
		}
		parts = append(parts, rangeFragment(cursor, bucketEnd))
		cursor = yearEnd
	}
	if len(parts) == 0 {
		parts = append(parts, rangeFragment(start, end))
	}
	return parts
}
