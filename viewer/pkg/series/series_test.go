package series

import (
	"encoding/json"
	"testing"

	"cgmview/viewer/defs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 {
	return &v
}

func correlated() defs.AggregatedPoint {
	return defs.AggregatedPoint{
		Timestamp: 1000,
		Kind:      defs.KindGlucose,
		Value:     6.5,
		Extra:     defs.Extra{Carbs: f(30), Insulin: f(2.5)},
	}
}

func TestPointifyPriority(t *testing.T) {
	assert.Equal(t, Point{X: 1000, Y: 6.5}, Pointify(correlated()))

	carbs := defs.AggregatedPoint{Timestamp: 5, Kind: defs.KindCarbs, Value: 12, Extra: defs.Extra{Insulin: f(1)}}
	assert.Equal(t, Point{X: 5, Y: 12}, Pointify(carbs))

	ins := defs.AggregatedPoint{Timestamp: 7, Kind: defs.KindInsulin, Value: 3}
	assert.Equal(t, Point{X: 7, Y: 3}, Pointify(ins))
}

func TestPointifyRoundTrip(t *testing.T) {
	for _, k := range defs.Kinds {
		events := []defs.Event{
			{Kind: k, Timestamp: 3, Value: 0.5},
			{Kind: k, Timestamp: 1, Value: 9},
			{Kind: k, Timestamp: 2, Value: 4.25},
		}
		points := FromEvents(events)
		require.Len(t, points, 3)

		ys := map[int64]float64{}
		for _, p := range points {
			ys[p.X] = p.Y
		}
		for _, e := range events {
			assert.Equal(t, e.Value, ys[e.Timestamp], "kind %s", k)
		}
		assert.Equal(t, []int64{1, 2, 3}, []int64{points[0].X, points[1].X, points[2].X})
	}
}

func TestPointifyPreserveAll(t *testing.T) {
	carbs := defs.AggregatedPoint{Timestamp: 5, Kind: defs.KindCarbs, Value: 12}
	p, ok := PointifyPreserveAll(carbs, defs.KindCarbs)
	require.True(t, ok)
	assert.Equal(t, Point{X: 5, Y: 12, Carbs: f(12)}, p)

	p, ok = PointifyPreserveAll(correlated(), defs.KindGlucose)
	require.True(t, ok)
	assert.Equal(t, Point{X: 1000, Y: 6.5, BG: f(6.5), Carbs: f(30), Insulin: f(2.5)}, p)

	_, ok = PointifyPreserveAll(carbs, defs.KindInsulin)
	assert.False(t, ok)
}

func TestPointifyPreserveNamed(t *testing.T) {
	p, ok := PointifyPreserveNamed(correlated(), defs.KindGlucose)
	require.True(t, ok)
	assert.Equal(t, Point{X: 1000, Y: 6.5, Carbs: f(30), Insulin: f(2.5)}, p)

	plain := defs.AggregatedPoint{Timestamp: 9, Kind: defs.KindGlucose, Value: 4}
	p, ok = PointifyPreserveNamed(plain, defs.KindGlucose)
	require.True(t, ok)
	assert.Equal(t, Point{X: 9, Y: 4}, p)
}

func TestPointJSON(t *testing.T) {
	p, _ := PointifyPreserveNamed(correlated(), defs.KindGlucose)
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1000,"y":6.5,"carbs":30,"insulin":2.5}`, string(b))

	b, err = json.Marshal(Pointify(correlated()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1000,"y":6.5}`, string(b))
}

func TestSortIsStable(t *testing.T) {
	points := []Point{{X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 3}, {X: 1, Y: 4}}
	Sort(points)
	assert.Equal(t, []Point{{X: 1, Y: 2}, {X: 1, Y: 4}, {X: 2, Y: 1}, {X: 2, Y: 3}}, points)
}

func TestLabel(t *testing.T) {
	p := Point{X: 1, Y: 6, Carbs: f(12.349), Insulin: f(1.5)}
	assert.Equal(t, "12.34g", Label(p, defs.KindCarbs))
	assert.Equal(t, "1.5u", Label(p, defs.KindInsulin))
	assert.Equal(t, "", Label(p, defs.KindGlucose))
	assert.Equal(t, "", Label(Point{Carbs: f(0)}, defs.KindCarbs))
}

func TestWithLabels(t *testing.T) {
	p, _ := PointifyPreserveNamed(correlated(), defs.KindGlucose)
	p = WithLabels(p)
	assert.Equal(t, "30g", p.CarbsLabel)
	assert.Equal(t, "2.5u", p.InsulinLabel)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1000,"y":6.5,"carbs":30,"insulin":2.5,"carbsLabel":"30g","insulinLabel":"2.5u"}`, string(b))

	plain := WithLabels(Point{X: 1, Y: 6})
	assert.Equal(t, Point{X: 1, Y: 6}, plain)
}
