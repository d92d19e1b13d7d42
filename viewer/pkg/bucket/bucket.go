// Package bucket partitions events by time of day, by hour, or by calendar day.
//
// The time-of-day and hour schemes move every event onto a single reference
// day so that readings taken at the same clock time on different days land in
// the same bucket. The day scheme keeps real calendar dates.
package bucket

import (
	"fmt"
	"sort"
	"time"

	"cgmview/viewer/defs"
	"cgmview/viewer/pkg/stats"
)

const LabelFormat = "2006/01/02"

type TimeOfDayKey struct {
	Hour   int
	Minute int
}

func (k TimeOfDayKey) Less(o TimeOfDayKey) bool {
	if k.Hour != o.Hour {
		return k.Hour < o.Hour
	}
	return k.Minute < o.Minute
}

func (k TimeOfDayKey) String() string {
	return fmt.Sprintf("%02d:%02d", k.Hour, k.Minute)
}

type HourKey struct {
	Hour int
}

type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

func (k DayKey) Less(o DayKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

// Label renders the key as YYYY/MM/DD.
func (k DayKey) Label() string {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC).Format(LabelFormat)
}

// Bucket holds events sharing a time-of-day key. Each event's timestamp is
// rewritten to Time, the key's instant on the reference day.
type Bucket struct {
	Time   int64
	Events []defs.Event
}

// HourBucket keeps a running count and sum instead of the events.
type HourBucket struct {
	Time  int64
	Count int
	Sum   float64
}

func (hb *HourBucket) Mean() (float64, error) {
	return stats.Mean(hb.Sum, hb.Count)
}

// Day groups the events of one calendar day by kind.
type Day struct {
	Key     DayKey
	Label   string
	BG      []defs.Event
	Carbs   []defs.Event
	Insulin []defs.Event
}

func (d *Day) Events(k defs.Kind) []defs.Event {
	switch k {
	case defs.KindGlucose:
		return d.BG
	case defs.KindCarbs:
		return d.Carbs
	case defs.KindInsulin:
		return d.Insulin
	}
	return nil
}

func (d *Day) add(e defs.Event) {
	switch e.Kind {
	case defs.KindGlucose:
		d.BG = append(d.BG, e)
	case defs.KindCarbs:
		d.Carbs = append(d.Carbs, e)
	case defs.KindInsulin:
		d.Insulin = append(d.Insulin, e)
	}
}

// onReferenceDay places t's wall clock hour and minute at the same offset from
// ref's midnight. With hourOnly the minute is dropped as well. Offsets keep
// distinct keys apart on days with a DST transition.
func onReferenceDay(t, ref time.Time, hourOnly bool) time.Time {
	t = t.In(ref.Location())
	offset := time.Duration(t.Hour()) * time.Hour
	if !hourOnly {
		offset += time.Duration(t.Minute()) * time.Minute
	}
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return midnight.Add(offset)
}

// ByTimeOfDay buckets events by hour and minute on ref's day.
func ByTimeOfDay(events []defs.Event, ref time.Time) map[TimeOfDayKey]*Bucket {
	buckets := make(map[TimeOfDayKey]*Bucket)
	for _, e := range events {
		if !e.Valid() {
			continue
		}

		local := e.Time().In(ref.Location())
		key := TimeOfDayKey{Hour: local.Hour(), Minute: local.Minute()}
		ts := onReferenceDay(local, ref, false).UnixMilli()

		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Time: ts}
			buckets[key] = b
		}
		b.Events = append(b.Events, defs.Event{Kind: e.Kind, Timestamp: ts, Value: e.Value})
	}
	return buckets
}

// ByHour accumulates events per hour on ref's day.
func ByHour(events []defs.Event, ref time.Time) map[HourKey]*HourBucket {
	buckets := make(map[HourKey]*HourBucket)
	for _, e := range events {
		if !e.Valid() {
			continue
		}

		local := e.Time().In(ref.Location())
		key := HourKey{Hour: local.Hour()}

		b, ok := buckets[key]
		if !ok {
			b = &HourBucket{Time: onReferenceDay(local, ref, true).UnixMilli()}
			buckets[key] = b
		}
		b.Count++
		b.Sum += e.Value
	}
	return buckets
}

// ByDay groups the per-kind event sequences together by calendar day in loc,
// so that one key holds the glucose, carbs and insulin of the same date.
func ByDay(loc *time.Location, sequences ...[]defs.Event) map[DayKey]*Day {
	days := make(map[DayKey]*Day)
	for _, events := range sequences {
		for _, e := range events {
			if !e.Valid() {
				continue
			}

			local := e.Time().In(loc)
			key := DayKey{Year: local.Year(), Month: local.Month(), Day: local.Day()}

			d, ok := days[key]
			if !ok {
				d = &Day{Key: key, Label: key.Label()}
				days[key] = d
			}
			d.add(e)
		}
	}
	return days
}

func SortedTimeOfDayKeys(buckets map[TimeOfDayKey]*Bucket) []TimeOfDayKey {
	keys := make([]TimeOfDayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func SortedHourKeys(buckets map[HourKey]*HourBucket) []HourKey {
	keys := make([]HourKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Hour < keys[j].Hour })
	return keys
}

func SortedDays(days map[DayKey]*Day) []*Day {
	sorted := make([]*Day, 0, len(days))
	for _, d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key.Less(sorted[j].Key) })
	return sorted
}

// Flatten returns the bucketed events ordered by key, then insertion.
func Flatten(buckets map[TimeOfDayKey]*Bucket) []defs.Event {
	var events []defs.Event
	for _, k := range SortedTimeOfDayKeys(buckets) {
		events = append(events, buckets[k].Events...)
	}
	return events
}
