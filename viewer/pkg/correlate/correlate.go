package correlate

import (
	"sort"
	"time"

	"cgmview/viewer/defs"
	"cgmview/viewer/pkg/bucket"
)

// Dedupe drops events whose timestamp was already seen, keeping the first.
func Dedupe(events []defs.Event) []defs.Event {
	seen := make(map[int64]struct{}, len(events))
	out := make([]defs.Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.Timestamp]; ok {
			continue
		}
		seen[e.Timestamp] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Nearby returns the events that happened strictly after ts and less than
// window later.
func Nearby(events []defs.Event, ts int64, window time.Duration) []defs.Event {
	limit := window.Milliseconds()

	var matched []defs.Event
	for _, e := range events {
		diff := e.Timestamp - ts
		if diff > 0 && diff < limit {
			matched = append(matched, e)
		}
	}
	return matched
}

// sum totals the deduplicated candidates, or returns nil when there are none.
func sum(candidates []defs.Event) *float64 {
	if len(candidates) == 0 {
		return nil
	}

	var total float64
	for _, e := range Dedupe(candidates) {
		total += e.Value
	}
	return &total
}

// Day attaches to each glucose reading of the day the carbs and insulin that
// followed it within window. An event may count towards several readings.
func Day(day *bucket.Day, window time.Duration) []defs.AggregatedPoint {
	readings := Dedupe(day.BG)
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp < readings[j].Timestamp
	})

	points := make([]defs.AggregatedPoint, len(readings))
	for i, r := range readings {
		p := defs.PointFromEvent(r)
		p.Extra.Carbs = sum(Nearby(day.Carbs, r.Timestamp, window))
		p.Extra.Insulin = sum(Nearby(day.Insulin, r.Timestamp, window))
		points[i] = p
	}
	return points
}
