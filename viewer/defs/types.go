package defs

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUpstreamFetch marks a render cycle that never got its data.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

type TimePoint interface {
	GetTime() time.Time
}

type TransformedReading struct {
	ID    *primitive.ObjectID `bson:"_id,omitempty"`
	Time  time.Time           `bson:"time"`
	Mmol  float64             `bson:"mmol"`
	Trend string              `bson:"trend"`
}

func (tr *TransformedReading) GetTime() time.Time {
	return tr.Time
}

type Insulin struct {
	ID     *primitive.ObjectID `bson:"_id,omitempty"`
	Time   time.Time           `bson:"time"`
	Type   string              `bson:"type"`
	Amount float64             `bson:"amount"`
}

func (in *Insulin) GetTime() time.Time {
	return in.Time
}

type Carb struct {
	ID     *primitive.ObjectID `bson:"_id,omitempty"`
	Time   time.Time           `bson:"time"`
	Amount float64             `bson:"amount"`
}

func (c *Carb) GetTime() time.Time {
	return c.Time
}

// Kind tags which measurement an event carries.
type Kind int

const (
	KindGlucose Kind = iota
	KindCarbs
	KindInsulin
)

// Kinds lists every kind in value-selection priority order.
var Kinds = [...]Kind{KindGlucose, KindCarbs, KindInsulin}

func (k Kind) String() string {
	return [...]string{"bg", "carbs", "insulin"}[k]
}

// MissingTimestamp marks an entry that arrived without a timestamp.
const MissingTimestamp int64 = math.MinInt64

// MaxValue bounds the magnitude of a measurement. Larger values are not
// physical and would overflow sums and means.
const MaxValue = 1e9

// Event is a single fetched measurement. Timestamp is in epoch milliseconds.
type Event struct {
	Kind      Kind
	Timestamp int64
	Value     float64
}

// Valid reports whether the event has both a timestamp and a finite value
// within MaxValue.
func (e Event) Valid() bool {
	return e.Timestamp != MissingTimestamp && !math.IsNaN(e.Value) && math.Abs(e.Value) <= MaxValue
}

func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Entry is the wire form of an event, as served by the snapshot API.
type Entry struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// UnmarshalJSON never fails on a single bad entry. A timestamp that is missing
// or not an integer decodes to MissingTimestamp, a value that is missing or not
// a number decodes to NaN. Both fail Event.Valid.
func (e *Entry) UnmarshalJSON(b []byte) error {
	*e = Entry{Timestamp: MissingTimestamp, Value: math.NaN()}

	var raw struct {
		Timestamp json.RawMessage `json:"timestamp"`
		Value     json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	var ts int64
	if isNumber(raw.Timestamp) && json.Unmarshal(raw.Timestamp, &ts) == nil {
		e.Timestamp = ts
	}
	var v float64
	if isNumber(raw.Value) && json.Unmarshal(raw.Value, &v) == nil {
		e.Value = v
	}
	return nil
}

// isNumber reports whether raw holds a JSON number literal.
func isNumber(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	c := raw[0]
	return c == '-' || (c >= '0' && c <= '9')
}

func (e Entry) Event(k Kind) Event {
	return Event{Kind: k, Timestamp: e.Timestamp, Value: e.Value}
}

type Treatments struct {
	Carbs   []Entry `json:"carbs"`
	Insulin []Entry `json:"insulin"`
}

// Snapshot is everything a single render cycle works on.
type Snapshot struct {
	BG         []Entry    `json:"bg"`
	Treatments Treatments `json:"treatments"`
}

// Events returns the entries of kind k as typed events, in fetch order.
func (s *Snapshot) Events(k Kind) []Event {
	var entries []Entry
	switch k {
	case KindGlucose:
		entries = s.BG
	case KindCarbs:
		entries = s.Treatments.Carbs
	case KindInsulin:
		entries = s.Treatments.Insulin
	}

	events := make([]Event, len(entries))
	for i, e := range entries {
		events[i] = e.Event(k)
	}
	return events
}

// Extra holds the amounts of nearby events attached to a reading.
type Extra struct {
	Carbs   *float64
	Insulin *float64
}

// AggregatedPoint is the unit handed to the series builder.
type AggregatedPoint struct {
	Timestamp int64
	Kind      Kind
	Value     float64
	Extra     Extra
}

// Field returns the value the point carries for kind k, if any.
func (ap AggregatedPoint) Field(k Kind) (float64, bool) {
	if ap.Kind == k {
		return ap.Value, true
	}

	var v *float64
	switch k {
	case KindCarbs:
		v = ap.Extra.Carbs
	case KindInsulin:
		v = ap.Extra.Insulin
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

func PointFromEvent(e Event) AggregatedPoint {
	return AggregatedPoint{Timestamp: e.Timestamp, Kind: e.Kind, Value: e.Value}
}
