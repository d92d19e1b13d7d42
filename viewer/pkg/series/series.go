package series

import (
	"sort"

	"cgmview/viewer/defs"

	"github.com/shopspring/decimal"
)

// Point is the {x, y} shape chart renderers consume. The named fields are only
// set by the preserving builders, the labels only by WithLabels.
type Point struct {
	X       int64    `json:"x"`
	Y       float64  `json:"y"`
	BG      *float64 `json:"bg,omitempty"`
	Carbs   *float64 `json:"carbs,omitempty"`
	Insulin *float64 `json:"insulin,omitempty"`

	CarbsLabel   string `json:"carbsLabel,omitempty"`
	InsulinLabel string `json:"insulinLabel,omitempty"`
}

func (p *Point) set(k defs.Kind, v float64) {
	switch k {
	case defs.KindGlucose:
		p.BG = &v
	case defs.KindCarbs:
		p.Carbs = &v
	case defs.KindInsulin:
		p.Insulin = &v
	}
}

// Pointify maps a point to {x, y}, taking y from the first field present in
// glucose, carbs, insulin order.
func Pointify(ap defs.AggregatedPoint) Point {
	p := Point{X: ap.Timestamp}
	for _, k := range defs.Kinds {
		if v, ok := ap.Field(k); ok {
			p.Y = v
			break
		}
	}
	return p
}

// PointifyPreserveAll takes y from field k and keeps every named field,
// including k itself.
func PointifyPreserveAll(ap defs.AggregatedPoint, k defs.Kind) (Point, bool) {
	y, ok := ap.Field(k)
	if !ok {
		return Point{}, false
	}

	p := Point{X: ap.Timestamp, Y: y}
	for _, kind := range defs.Kinds {
		if v, ok := ap.Field(kind); ok {
			p.set(kind, v)
		}
	}
	return p, true
}

// PointifyPreserveNamed takes y from field k and keeps the other named
// fields. k is dropped since y already carries it.
func PointifyPreserveNamed(ap defs.AggregatedPoint, k defs.Kind) (Point, bool) {
	y, ok := ap.Field(k)
	if !ok {
		return Point{}, false
	}

	p := Point{X: ap.Timestamp, Y: y}
	for _, kind := range defs.Kinds {
		if kind == k {
			continue
		}
		if v, ok := ap.Field(kind); ok {
			p.set(kind, v)
		}
	}
	return p, true
}

// Sort orders points by x. Points with equal x keep their relative order.
func Sort(points []Point) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })
}

// FromEvents pointifies events and sorts the result.
func FromEvents(events []defs.Event) []Point {
	points := make([]Point, len(events))
	for i, e := range events {
		points[i] = Pointify(defs.PointFromEvent(e))
	}
	Sort(points)
	return points
}

var units = map[defs.Kind]string{
	defs.KindGlucose: "",
	defs.KindCarbs:   "g",
	defs.KindInsulin: "u",
}

// Label renders field k for a tooltip, truncated to two decimals. Points
// without the field have no label.
func Label(p Point, k defs.Kind) string {
	var v *float64
	switch k {
	case defs.KindGlucose:
		v = p.BG
	case defs.KindCarbs:
		v = p.Carbs
	case defs.KindInsulin:
		v = p.Insulin
	}
	if v == nil || *v == 0 {
		return ""
	}
	return decimal.NewFromFloat(*v).Truncate(2).String() + units[k]
}

// WithLabels fills the tooltip labels for the carbs and insulin fields.
func WithLabels(p Point) Point {
	p.CarbsLabel = Label(p, defs.KindCarbs)
	p.InsulinLabel = Label(p, defs.KindInsulin)
	return p
}
