package viewer

import (
	"errors"
	"fmt"
	"time"

	"cgmview/viewer/defs"
	"cgmview/viewer/pkg/bucket"
	"cgmview/viewer/pkg/correlate"
	"cgmview/viewer/pkg/series"
	"cgmview/viewer/pkg/stats"

	"golang.org/x/sync/errgroup"
)

const (
	MedianLabel  = "Median"
	CarbsLabel   = "Carbs"
	InsulinLabel = "Insulin"
)

type Thresholds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type Series struct {
	Label string         `json:"label"`
	Data  []series.Point `json:"data"`
}

type Chart struct {
	Title      string      `json:"title"`
	Series     []Series    `json:"series"`
	Thresholds *Thresholds `json:"thresholds,omitempty"`
}

type RangeCounts struct {
	Low     int `json:"low"`
	InRange int `json:"inRange"`
	High    int `json:"high"`
}

type Summary struct {
	Range     RangeCounts `json:"range"`
	Average   float64     `json:"average"`
	Deviation float64     `json:"deviation"`
	InRange   float64     `json:"inRangeFraction"`
}

// DaySummary is the per-day detail behind one daily chart.
type DaySummary struct {
	Label   string  `json:"label"`
	Average float64 `json:"average"`
	Carbs   float64 `json:"carbs"`
	Insulin float64 `json:"insulin"`
}

type ChartSet struct {
	Distribution Chart        `json:"distribution"`
	Carbs        Chart        `json:"carbs"`
	Insulin      Chart        `json:"insulin"`
	Days         []Chart      `json:"days"`
	DaySummaries []DaySummary `json:"daySummaries"`
	Summary      Summary      `json:"summary"`
}

type BuildOptions struct {
	Low         float64
	High        float64
	Percentiles []float64
	Window      time.Duration
	Location    *time.Location
}

func OptionsFromConfig(cfg defs.Config, loc *time.Location) BuildOptions {
	return BuildOptions{
		Low:         cfg.Glucose.Low,
		High:        cfg.Glucose.High,
		Percentiles: cfg.Charts.Percentiles,
		Window:      defs.CorrelationWindow,
		Location:    loc,
	}
}

// Build runs every aggregation over the snapshot. now is the reference day for
// the time-of-day charts. The aggregations only read the snapshot and write
// their own part of the chart set, so they run concurrently.
func Build(snap *defs.Snapshot, opts BuildOptions, now time.Time) (*ChartSet, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Window == 0 {
		opts.Window = defs.CorrelationWindow
	}
	ref := now.In(opts.Location)
	thresholds := &Thresholds{Low: opts.Low, High: opts.High}

	glucose := valid(snap.Events(defs.KindGlucose))
	carbs := valid(snap.Events(defs.KindCarbs))
	insulin := valid(snap.Events(defs.KindInsulin))

	cs := &ChartSet{}
	var g errgroup.Group

	g.Go(func() error {
		chart, err := distributionChart(glucose, ref, opts.Percentiles)
		if err != nil {
			return err
		}
		chart.Thresholds = thresholds
		cs.Distribution = chart
		return nil
	})
	g.Go(func() error {
		cs.Carbs = carbsChart(carbs, ref)
		return nil
	})
	g.Go(func() error {
		cs.Insulin = insulinChart(insulin, ref)
		return nil
	})
	g.Go(func() error {
		cs.Days, cs.DaySummaries = dayCharts(glucose, carbs, insulin, opts)
		for i := range cs.Days {
			cs.Days[i].Thresholds = thresholds
		}
		return nil
	})
	g.Go(func() error {
		cs.Summary = summarize(glucose, opts.Low, opts.High)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cs, nil
}

func valid(events []defs.Event) []defs.Event {
	out := make([]defs.Event, 0, len(events))
	for _, e := range events {
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out
}

func distributionChart(glucose []defs.Event, ref time.Time, percentiles []float64) (Chart, error) {
	buckets := bucket.ByTimeOfDay(glucose, ref)
	keys := bucket.SortedTimeOfDayKeys(buckets)

	median := make([]series.Point, 0, len(keys))
	for _, k := range keys {
		m, err := stats.Median(buckets[k].Events)
		if errors.Is(err, stats.ErrEmptyInput) {
			continue
		}
		median = append(median, series.Pointify(defs.PointFromEvent(m)))
	}
	series.Sort(median)

	chart := Chart{
		Title:  "Daily distribution",
		Series: []Series{{Label: MedianLabel, Data: median}},
	}

	for _, p := range percentiles {
		points := make([]series.Point, 0, len(keys))
		for _, k := range keys {
			e, err := stats.Percentile(p, buckets[k].Events, stats.EventValue)
			if errors.Is(err, stats.ErrEmptyInput) {
				continue
			}
			if err != nil {
				return Chart{}, fmt.Errorf("unable to compute percentile %v: %w", p, err)
			}
			points = append(points, series.Pointify(defs.PointFromEvent(e)))
		}
		series.Sort(points)
		chart.Series = append(chart.Series, Series{Label: PercentileLabel(p), Data: points})
	}

	return chart, nil
}

func PercentileLabel(p float64) string {
	return fmt.Sprintf("%gth percentile", p)
}

func carbsChart(carbs []defs.Event, ref time.Time) Chart {
	events := bucket.Flatten(bucket.ByTimeOfDay(carbs, ref))

	points := make([]series.Point, 0, len(events))
	for _, e := range events {
		if p, ok := series.PointifyPreserveAll(defs.PointFromEvent(e), defs.KindCarbs); ok {
			points = append(points, p)
		}
	}
	series.Sort(points)

	return Chart{Title: "Carbs", Series: []Series{{Label: CarbsLabel, Data: points}}}
}

func insulinChart(insulin []defs.Event, ref time.Time) Chart {
	buckets := bucket.ByHour(insulin, ref)

	points := make([]series.Point, 0, len(buckets))
	for _, k := range bucket.SortedHourKeys(buckets) {
		b := buckets[k]
		mean, err := b.Mean()
		if err != nil {
			continue
		}
		points = append(points, series.Pointify(defs.AggregatedPoint{
			Timestamp: b.Time,
			Kind:      defs.KindInsulin,
			Value:     mean,
		}))
	}
	series.Sort(points)

	return Chart{Title: "Insulin", Series: []Series{{Label: InsulinLabel, Data: points}}}
}

func dayCharts(glucose, carbs, insulin []defs.Event, opts BuildOptions) ([]Chart, []DaySummary) {
	days := bucket.SortedDays(bucket.ByDay(opts.Location, glucose, carbs, insulin))

	charts := make([]Chart, 0, len(days))
	summaries := make([]DaySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, DaySummary{
			Label:   day.Label,
			Average: stats.GlucoseSummary(day.BG).Average,
			Carbs:   total(correlate.Dedupe(day.Carbs)),
			Insulin: total(correlate.Dedupe(day.Insulin)),
		})

		if len(day.BG) == 0 {
			continue
		}

		aps := correlate.Day(day, opts.Window)
		points := make([]series.Point, 0, len(aps))
		for _, ap := range aps {
			if p, ok := series.PointifyPreserveNamed(ap, defs.KindGlucose); ok {
				points = append(points, series.WithLabels(p))
			}
		}
		series.Sort(points)

		charts = append(charts, Chart{
			Title:  day.Label,
			Series: []Series{{Label: day.Label, Data: points}},
		})
	}
	return charts, summaries
}

func total(events []defs.Event) float64 {
	var sum float64
	for _, e := range events {
		sum += e.Value
	}
	return sum
}

func summarize(glucose []defs.Event, low, high float64) Summary {
	ra := stats.TimeSpentInRange(glucose, low, high)
	ss := stats.GlucoseSummary(glucose)
	return Summary{
		Range:     RangeCounts{Low: ra.Below, InRange: ra.In, High: ra.Above},
		Average:   ss.Average,
		Deviation: ss.Deviation,
		InRange:   ra.InRange,
	}
}
