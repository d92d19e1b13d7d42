package stats

import (
	"errors"
	"math"
	"sort"

	"cgmview/viewer/defs"

	"github.com/montanaflynn/stats"
)

var (
	ErrEmptyInput = errors.New("empty input")
	ErrBounds     = errors.New("percentile outside [0, 100]")
)

// sorted returns a copy of events ordered by value. Equal values keep their
// input order.
func sorted(events []defs.Event) []defs.Event {
	c := make([]defs.Event, len(events))
	copy(c, events)
	sort.SliceStable(c, func(i, j int) bool { return c[i].Value < c[j].Value })
	return c
}

// Median returns the middle event by value. For an even count the result
// carries the lower middle event's timestamp and the mean of both middle values.
func Median(events []defs.Event) (defs.Event, error) {
	if len(events) == 0 {
		return defs.Event{}, ErrEmptyInput
	}

	c := sorted(events)
	mid := len(c) / 2
	if len(c)%2 == 1 {
		return c[mid], nil
	}

	left := c[mid-1]
	return defs.Event{
		Kind:      left.Kind,
		Timestamp: left.Timestamp,
		Value:     (left.Value + c[mid].Value) / 2,
	}, nil
}

// Percentile is a nearest-rank percentile: items are stably sorted by value
// and the one at index floor(p/100*n), clamped to [0, n-1], is returned.
func Percentile[T any](p float64, items []T, value func(T) float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyInput
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return zero, ErrBounds
	}

	c := make([]T, len(items))
	copy(c, items)
	sort.SliceStable(c, func(i, j int) bool { return value(c[i]) < value(c[j]) })

	idx := int(math.Floor(p / 100 * float64(len(c))))
	if idx > len(c)-1 {
		idx = len(c) - 1
	}
	return c[idx], nil
}

// EventValue selects an event's scalar for Percentile.
func EventValue(e defs.Event) float64 {
	return e.Value
}

func Mean(sum float64, count int) (float64, error) {
	if count == 0 {
		return 0, ErrEmptyInput
	}
	return sum / float64(count), nil
}

type RangeAnalysis struct {
	Below int
	In    int
	Above int

	BelowRange float64
	InRange    float64
	AboveRange float64
}

// TimeSpentInRange counts readings strictly below lower, strictly above upper
// and in between (bounds inclusive).
func TimeSpentInRange(events []defs.Event, lower, upper float64) RangeAnalysis {
	if len(events) == 0 {
		return RangeAnalysis{}
	}

	var ra RangeAnalysis
	for _, e := range events {
		switch {
		case e.Value < lower:
			ra.Below++
		case e.Value > upper:
			ra.Above++
		default:
			ra.In++
		}
	}

	total := float64(len(events))
	ra.BelowRange = float64(ra.Below) / total
	ra.InRange = float64(ra.In) / total
	ra.AboveRange = float64(ra.Above) / total
	return ra
}

type SummaryStatistics struct {
	Average   float64
	Deviation float64
}

func GlucoseSummary(events []defs.Event) SummaryStatistics {
	if len(events) == 0 {
		return SummaryStatistics{}
	}

	floats := make([]float64, len(events))
	for i, e := range events {
		floats[i] = e.Value
	}
	avg, _ := stats.Mean(floats)
	dev, _ := stats.StandardDeviation(floats)
	return SummaryStatistics{Average: avg, Deviation: dev}
}
